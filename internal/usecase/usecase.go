package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bytesize-app/bytesize/internal/domain/audio"
	"github.com/bytesize-app/bytesize/internal/domain/highlights"
	"github.com/bytesize-app/bytesize/internal/ports"
	"github.com/bytesize-app/bytesize/internal/render"
	"github.com/bytesize-app/bytesize/internal/types"
)

// fallbackReelSec is the duration substituted when the boundary
// resolver finds no natural end, the midpoint of the 40-100s window.
const fallbackReelSec = 60

type Deps struct {
	Media ports.MediaBackend
	ASR   ports.ASR
	// Reranker may be nil (no credentials configured); the pipeline
	// then always takes the heuristic order.
	Reranker ports.Reranker
	Log      *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Usecase{d: d}
}

type Input struct {
	InputVideo string
	RunID      string
	OutDir     string
	CacheDir   string

	TopKPeaks   int
	PeakWindow  float64 // fusion window, seconds
	PeakMinSep  float64 // declustering separation, seconds
	MinWords    int
	Reels       int
	MinReelSec  float64
	MaxReelSec  float64
	IsolateReel bool // continue with remaining reels after one render failure
}

type Result struct {
	Manifest types.Manifest
	// Halted names the stage that produced no usable output. Empty on
	// a full run. A halted run is not an error: there was simply
	// nothing to cut.
	Halted string
}

// Run drives the pipeline end to end: loudness peaks, transcription,
// fusion, reranking with deterministic fallback, boundary resolution,
// rendering. Each stage short-circuits the run when it yields nothing.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	// The extracted audio is scoped to this run and removed on every
	// exit path.
	tmpDir, err := os.MkdirTemp("", "bytesize-audio-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	wav := filepath.Join(tmpDir, "audio.wav")

	peaks := u.detectPeaks(ctx, in, wav)
	if len(peaks) == 0 {
		log.Warn("no loudness peaks detected, stopping", "stage", "peaks", "input", in.InputVideo)
		return Result{Halted: "peaks"}, nil
	}
	log.Info("loudness peaks detected", "count", len(peaks))

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}
	if len(tr.Segments) == 0 {
		log.Warn("transcription returned no segments, stopping", "stage", "transcript")
		return Result{Halted: "transcript"}, nil
	}
	log.Info("transcription complete", "segments", len(tr.Segments))

	cands := highlights.SelectCandidates(tr, peaks, in.PeakWindow, in.MinWords)
	if len(cands) == 0 {
		log.Warn("no segment is both loud-adjacent and content-rich, stopping", "stage", "fusion")
		return Result{Halted: "fusion"}, nil
	}
	log.Info("candidate segments selected", "count", len(cands))

	ranked := u.rerank(ctx, cands, in.Reels)
	if len(ranked) == 0 {
		log.Warn("ranking produced an empty set, stopping", "stage", "rerank")
		return Result{Halted: "rerank"}, nil
	}

	m := types.Manifest{Input: in.InputVideo, RunID: in.RunID}
	renderer := render.New(u.d.Media)
	for i, r := range ranked {
		end, ok := highlights.ResolveEnd(r.Start, tr.Segments, in.MinReelSec, in.MaxReelSec)
		if !ok {
			end = r.Start + fallbackReelSec
		}
		iv := types.Interval{Start: r.Start, End: end}
		log.Info("rendering reel",
			"reel", i+1, "start", fmt.Sprintf("%.2f", iv.Start), "end", fmt.Sprintf("%.2f", iv.End))

		art, err := renderer.Render(ctx, in.InputVideo, iv, r.Text, in.OutDir, i+1)
		if err != nil {
			if in.IsolateReel {
				log.Error("reel render failed, continuing", "reel", i+1, "error", err)
				continue
			}
			return Result{}, fmt.Errorf("render reel %d: %w", i+1, err)
		}

		m.Reels = append(m.Reels, types.ManifestReel{
			ID:         i + 1,
			StartSec:   iv.Start,
			EndSec:     iv.End,
			Text:       r.Text,
			Reason:     r.Reason,
			Horizontal: art.Horizontal,
			Vertical:   art.Vertical,
			Captioned:  art.Captioned,
		})
	}

	if len(m.Reels) == 0 {
		log.Warn("no reels produced", "stage", "render")
		return Result{Halted: "render"}, nil
	}
	return Result{Manifest: m}, nil
}

// detectPeaks extracts the audio track and runs envelope analysis.
// A video without a usable audio track yields no peaks rather than an
// error: no highlights are derivable from it.
func (u Usecase) detectPeaks(ctx context.Context, in Input, wav string) []float64 {
	if err := u.d.Media.ExtractAudioMono16k(ctx, in.InputVideo, wav); err != nil {
		u.d.Log.Warn("audio extraction failed", "error", err)
		return nil
	}
	peaks, err := audio.PeaksFromFile(wav, in.TopKPeaks, in.PeakMinSep)
	if err != nil {
		u.d.Log.Warn("audio decode failed", "error", err)
		return nil
	}
	return peaks
}

// rerank applies the semantic reranker when one is configured and
// falls back to the first topK candidates, in heuristic order and
// without fabricated reasons, on any failure.
func (u Usecase) rerank(ctx context.Context, cands []types.Candidate, topK int) []types.RankedSegment {
	if u.d.Reranker != nil {
		ranked, err := u.d.Reranker.Rerank(ctx, cands, topK)
		if err == nil && len(ranked) > 0 {
			return ranked
		}
		if err != nil {
			u.d.Log.Warn("reranker failed, falling back to heuristic order", "error", err)
		}
	}

	if topK > len(cands) {
		topK = len(cands)
	}
	out := make([]types.RankedSegment, 0, topK)
	for _, c := range cands[:topK] {
		out = append(out, types.RankedSegment{Candidate: c})
	}
	return out
}
