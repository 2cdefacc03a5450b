package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// pcm holds decoded audio ready for envelope analysis.
type pcm struct {
	samples    []int16 // mono, channels averaged
	sampleRate int
}

var errNoAudio = errors.New("wav: no audio data")

// decodeWAV reads a PCM 16-bit WAV stream. The extraction step always
// produces mono 16 kHz s16le, but stereo input is downmixed rather
// than rejected.
func decodeWAV(r io.Reader) (pcm, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return pcm{}, fmt.Errorf("wav: read header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return pcm{}, errors.New("wav: not a RIFF/WAVE stream")
	}

	var (
		channels   int
		sampleRate int
		bits       int
		data       []byte
	)
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return pcm{}, fmt.Errorf("wav: read chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return pcm{}, fmt.Errorf("wav: read %q chunk: %w", id, err)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return pcm{}, errors.New("wav: short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != 1 { // PCM only
				return pcm{}, fmt.Errorf("wav: unsupported format %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bits = int(binary.LittleEndian.Uint16(body[14:16]))
		case "data":
			data = body
		}
		if size%2 == 1 {
			// chunks are word-aligned with a pad byte
			var pad [1]byte
			if _, err := io.ReadFull(r, pad[:]); err != nil {
				break
			}
		}
	}

	if sampleRate <= 0 || channels <= 0 {
		return pcm{}, errors.New("wav: missing fmt chunk")
	}
	if bits != 16 {
		return pcm{}, fmt.Errorf("wav: unsupported bit depth %d", bits)
	}
	if len(data) < 2*channels {
		return pcm{}, errNoAudio
	}

	frames := len(data) / (2 * channels)
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var acc int
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			acc += int(int16(binary.LittleEndian.Uint16(data[off : off+2])))
		}
		samples[i] = int16(acc / channels)
	}
	return pcm{samples: samples, sampleRate: sampleRate}, nil
}
