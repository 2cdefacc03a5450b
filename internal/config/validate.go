package config

import (
	"errors"
	"fmt"

	"github.com/bytesize-app/bytesize/internal/ports/adapters/gemini"
)

// Validate checks the configuration before a run. The Gemini API key
// is deliberately not required here: without it the pipeline runs with
// the heuristic ranking fallback.
func (c Config) Validate() error {
	p := c.Pipeline
	if p.TopKPeaks <= 0 {
		return errors.New("pipeline.top_k_peaks must be > 0")
	}
	if p.PeakWindowSec <= 0 {
		return errors.New("pipeline.peak_window_sec must be > 0")
	}
	if p.PeakMinSepSec < 0 {
		return errors.New("pipeline.peak_min_sep_sec must be >= 0")
	}
	if p.MinWords <= 0 {
		return errors.New("pipeline.min_words must be > 0")
	}
	if p.Reels <= 0 {
		return errors.New("pipeline.reels must be > 0")
	}
	if p.MinReelSec <= 0 {
		return errors.New("pipeline.min_reel_sec must be > 0")
	}
	if p.MaxReelSec <= p.MinReelSec {
		return fmt.Errorf("pipeline.max_reel_sec must be > min_reel_sec (%.0f)", p.MinReelSec)
	}
	if c.Whisper.Model == "" {
		return errors.New("whisper.model is required")
	}
	if c.Gemini.APIKey != "" {
		if err := gemini.ValidateBaseURL(c.Gemini.BaseURL, c.Gemini.AllowedHosts); err != nil {
			return err
		}
	}
	return nil
}

// PeakMinSep resolves the declustering separation: explicit value if
// set, otherwise the fusion window.
func (c Config) PeakMinSep() float64 {
	if c.Pipeline.PeakMinSepSec > 0 {
		return c.Pipeline.PeakMinSepSec
	}
	return c.Pipeline.PeakWindowSec
}
