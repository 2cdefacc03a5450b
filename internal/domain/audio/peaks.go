// Package audio locates the loudest moments of a track. Loudness is a
// short-time RMS envelope over fixed analysis windows; the top-K
// windows become peak timestamps, with a minimum separation so one
// sustained loud passage cannot claim several slots.
package audio

import (
	"fmt"
	"math"
	"os"
	"sort"
)

// windowSeconds is the envelope analysis window. Half a second is
// coarse enough to smooth single plosives and fine enough to land a
// peak inside the sentence that caused it.
const windowSeconds = 0.5

// DetectPeaks returns up to topK peak timestamps (seconds, ascending)
// from mono PCM samples. minSep is the minimum spacing in seconds
// between selected peaks; 0 disables declustering.
func DetectPeaks(samples []int16, sampleRate, topK int, minSep float64) []float64 {
	if len(samples) == 0 || sampleRate <= 0 || topK <= 0 {
		return nil
	}

	win := int(windowSeconds * float64(sampleRate))
	if win <= 0 {
		win = 1
	}

	type bucket struct {
		at  float64 // window center
		rms float64
	}
	env := make([]bucket, 0, len(samples)/win+1)
	for off := 0; off < len(samples); off += win {
		end := off + win
		if end > len(samples) {
			end = len(samples)
		}
		var acc float64
		for _, s := range samples[off:end] {
			v := float64(s)
			acc += v * v
		}
		rms := math.Sqrt(acc / float64(end-off))
		center := (float64(off) + float64(end-off)/2) / float64(sampleRate)
		env = append(env, bucket{at: center, rms: rms})
	}

	sort.Slice(env, func(i, j int) bool {
		if env[i].rms == env[j].rms {
			return env[i].at < env[j].at
		}
		return env[i].rms > env[j].rms
	})

	out := make([]float64, 0, topK)
	for _, b := range env {
		if len(out) >= topK {
			break
		}
		if b.rms == 0 {
			break // silence; sorted order means the rest is silent too
		}
		if minSep > 0 && tooClose(out, b.at, minSep) {
			continue
		}
		out = append(out, b.at)
	}
	sort.Float64s(out)
	return out
}

func tooClose(picked []float64, at, minSep float64) bool {
	for _, p := range picked {
		if math.Abs(p-at) < minSep {
			return true
		}
	}
	return false
}

// PeaksFromFile decodes a PCM WAV file and runs peak detection on it.
func PeaksFromFile(path string, topK int, minSep float64) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	p, err := decodeWAV(f)
	if err != nil {
		return nil, err
	}
	return DetectPeaks(p.samples, p.sampleRate, topK, minSep), nil
}
