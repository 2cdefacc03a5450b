// Package highlights fuses the loudness signal with the transcript and
// decides where a chosen reel should naturally end.
package highlights

import (
	"math"
	"strings"

	"github.com/bytesize-app/bytesize/internal/types"
)

// SelectCandidates picks transcript segments that start within window
// seconds of any loudness peak and carry at least minWords words.
// A segment matched by several peaks is kept once, at its first
// matching position; identity is (Start, End).
func SelectCandidates(tr types.Transcript, peaks []float64, window float64, minWords int) []types.Candidate {
	if len(tr.Segments) == 0 || len(peaks) == 0 {
		return nil
	}

	type key struct{ start, end float64 }
	seen := make(map[key]struct{})
	var out []types.Candidate
	for _, p := range peaks {
		for _, seg := range tr.Segments {
			if math.Abs(seg.Start-p) > window {
				continue
			}
			if wordCount(seg.Text) < minWords {
				continue
			}
			k := key{seg.Start, seg.End}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, types.Candidate{Start: seg.Start, End: seg.End, Text: seg.Text})
		}
	}
	return out
}

func wordCount(s string) int { return len(strings.Fields(s)) }
