package ports

import (
	"context"
	"time"

	"github.com/bytesize-app/bytesize/internal/types"
)

// MediaInfo is the probe result for a video file.
type MediaInfo struct {
	Width    int
	Height   int
	Duration time.Duration
}

// MediaBackend abstracts the decode/probe/encode tool (ffmpeg in
// production, a deterministic fake in tests).
type MediaBackend interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
	Probe(ctx context.Context, path string) (MediaInfo, error)
	CutClip(ctx context.Context, in string, start, end time.Duration, out string) error
	// Transcode re-encodes in through the given -vf filter graph.
	// copyAudio selects audio stream copy instead of re-encoding.
	Transcode(ctx context.Context, in, filter, out string, copyAudio bool) error
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// Reranker reorders candidates by semantic quality. It returns an
// error on any service failure; the fallback policy belongs to the
// caller, not here.
type Reranker interface {
	Rerank(ctx context.Context, cands []types.Candidate, topK int) ([]types.RankedSegment, error)
}
