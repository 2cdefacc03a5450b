package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
	"testing"
)

const testRate = 16000

// burst writes a loud sine burst into samples at the given second.
func burst(samples []int16, atSec float64, durSec float64, amp float64) {
	start := int(atSec * testRate)
	n := int(durSec * testRate)
	for i := 0; i < n && start+i < len(samples); i++ {
		v := amp * math.Sin(2*math.Pi*440*float64(i)/testRate)
		samples[start+i] = int16(v)
	}
}

func TestDetectPeaks_FindsLoudMoments(t *testing.T) {
	samples := make([]int16, 30*testRate) // 30s of silence
	burst(samples, 5, 1, 20000)
	burst(samples, 20, 1, 15000)

	peaks := DetectPeaks(samples, testRate, 5, 3)
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks, got %d: %v", len(peaks), peaks)
	}
	if !sort.Float64sAreSorted(peaks) {
		t.Fatalf("peaks not ascending: %v", peaks)
	}
	if math.Abs(peaks[0]-5.25) > 1 {
		t.Fatalf("first peak not near 5s: %v", peaks)
	}
	if math.Abs(peaks[1]-20.25) > 1 {
		t.Fatalf("second peak not near 20s: %v", peaks)
	}
	for _, p := range peaks {
		if p < 0 || p > 30 {
			t.Fatalf("peak %v outside track bounds", p)
		}
	}
}

func TestDetectPeaks_TopKBound(t *testing.T) {
	samples := make([]int16, 60*testRate)
	for s := 0; s < 60; s += 5 {
		burst(samples, float64(s), 1, 18000)
	}
	peaks := DetectPeaks(samples, testRate, 3, 2)
	if len(peaks) > 3 {
		t.Fatalf("expected at most 3 peaks, got %d", len(peaks))
	}
}

func TestDetectPeaks_MinSeparation(t *testing.T) {
	samples := make([]int16, 30*testRate)
	// One sustained loud passage: without declustering it would fill
	// every slot with adjacent windows.
	burst(samples, 10, 4, 20000)

	peaks := DetectPeaks(samples, testRate, 5, 5)
	if len(peaks) != 1 {
		t.Fatalf("expected 1 declustered peak, got %d: %v", len(peaks), peaks)
	}
}

func TestDetectPeaks_Silence(t *testing.T) {
	samples := make([]int16, 10*testRate)
	if peaks := DetectPeaks(samples, testRate, 5, 0); len(peaks) != 0 {
		t.Fatalf("expected no peaks in silence, got %v", peaks)
	}
}

func TestDetectPeaks_EmptyInput(t *testing.T) {
	if peaks := DetectPeaks(nil, testRate, 5, 0); peaks != nil {
		t.Fatalf("expected nil, got %v", peaks)
	}
	if peaks := DetectPeaks(make([]int16, 100), testRate, 0, 0); peaks != nil {
		t.Fatalf("expected nil for topK=0, got %v", peaks)
	}
}

func TestDecodeWAV_RoundTrip(t *testing.T) {
	samples := make([]int16, 2*testRate)
	burst(samples, 0.5, 0.2, 12000)

	p, err := decodeWAV(bytes.NewReader(encodeWAV(t, samples, testRate, 1)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.sampleRate != testRate {
		t.Fatalf("sample rate = %d, want %d", p.sampleRate, testRate)
	}
	if len(p.samples) != len(samples) {
		t.Fatalf("sample count = %d, want %d", len(p.samples), len(samples))
	}
	var peak int16
	for _, s := range p.samples {
		if s > peak {
			peak = s
		}
	}
	if peak < 1000 {
		t.Fatalf("expected burst energy after decode, max sample %d", peak)
	}
}

func TestDecodeWAV_RejectsGarbage(t *testing.T) {
	if _, err := decodeWAV(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}

func encodeWAV(t *testing.T, samples []int16, rate, channels int) []byte {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&data, binary.LittleEndian, s)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(rate*channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}
