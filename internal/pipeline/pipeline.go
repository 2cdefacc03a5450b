// Package pipeline wires the real adapters to the orchestrator and
// manages run-scoped directories and the output manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/bytesize-app/bytesize/internal/config"
	"github.com/bytesize-app/bytesize/internal/ports"
	"github.com/bytesize-app/bytesize/internal/ports/adapters/ffmpeg"
	"github.com/bytesize-app/bytesize/internal/ports/adapters/gemini"
	"github.com/bytesize-app/bytesize/internal/ports/adapters/whispercpp"
	"github.com/bytesize-app/bytesize/internal/types"
	"github.com/bytesize-app/bytesize/internal/usecase"
)

type Result struct {
	Manifest     types.Manifest
	ManifestPath string
	OutDir       string
	Halted       string
}

// Run executes the full pipeline for one input video.
func Run(ctx context.Context, input string, cfg config.Config, log *slog.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("config: %w", err)
	}

	media := ffmpeg.New(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath)
	asr := whispercpp.New(cfg.Whisper.Bin, cfg.Whisper.Model)

	var reranker ports.Reranker
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.New(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return Result{}, fmt.Errorf("reranker: %w", err)
		}
		reranker = client
	} else {
		log.Info("no Gemini API key configured, reranking disabled")
	}

	runID := uuid.NewString()
	runOutDir := buildRunOutDir(cfg.Pipeline.OutputDir, input, time.Now().UTC(), runID)
	cacheDir := filepath.Join(cfg.Pipeline.CacheDir, "runs", runID)
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Info("run workspace ready", "run_id", runID, "out", runOutDir, "cache", cacheDir)

	uc := usecase.New(usecase.Deps{
		Media:    media,
		ASR:      asr,
		Reranker: reranker,
		Log:      log,
	})

	res, err := uc.Run(ctx, usecase.Input{
		InputVideo:  input,
		RunID:       runID,
		OutDir:      runOutDir,
		CacheDir:    cacheDir,
		TopKPeaks:   cfg.Pipeline.TopKPeaks,
		PeakWindow:  cfg.Pipeline.PeakWindowSec,
		PeakMinSep:  cfg.PeakMinSep(),
		MinWords:    cfg.Pipeline.MinWords,
		Reels:       cfg.Pipeline.Reels,
		MinReelSec:  cfg.Pipeline.MinReelSec,
		MaxReelSec:  cfg.Pipeline.MaxReelSec,
		IsolateReel: cfg.Render.ContinueOnError,
	})
	if err != nil {
		return Result{}, err
	}
	if res.Halted != "" {
		return Result{Halted: res.Halted, OutDir: runOutDir}, nil
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return Result{}, err
	}
	log.Info("manifest written", "reels", len(res.Manifest.Reels), "path", manifestPath)

	return Result{
		Manifest:     res.Manifest,
		ManifestPath: manifestPath,
		OutDir:       runOutDir,
	}, nil
}

func buildRunOutDir(outRoot, input string, now time.Time, runID string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	suffix := strings.ReplaceAll(runID, "-", "")[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.MediaBackend = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Reranker = (*gemini.Client)(nil)
