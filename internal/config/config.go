// Package config holds the tool configuration: a TOML file over
// repository defaults, with environment overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Render   Render   `toml:"render"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Whisper  Whisper  `toml:"whisper"`
	Gemini   Gemini   `toml:"gemini"`
	Log      Log      `toml:"log"`
}

// Pipeline tunes highlight selection and reel duration bounds.
type Pipeline struct {
	TopKPeaks     int     `toml:"top_k_peaks"`
	PeakWindowSec float64 `toml:"peak_window_sec"`
	PeakMinSepSec float64 `toml:"peak_min_sep_sec"` // 0 means peak_window_sec
	MinWords      int     `toml:"min_words"`
	Reels         int     `toml:"reels"`
	MinReelSec    float64 `toml:"min_reel_sec"`
	MaxReelSec    float64 `toml:"max_reel_sec"`
	OutputDir     string  `toml:"output_dir"`
	CacheDir      string  `toml:"cache_dir"`
}

type Render struct {
	// ContinueOnError keeps rendering remaining reels after one fails.
	// Off by default: a fatal render error aborts the batch.
	ContinueOnError bool `toml:"continue_on_error"`
}

type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

type Whisper struct {
	Bin   string `toml:"bin"`
	Model string `toml:"model"`
}

type Gemini struct {
	APIKey         string   `toml:"api_key"`
	Model          string   `toml:"model"`
	BaseURL        string   `toml:"base_url"`
	AllowedHosts   []string `toml:"allowed_hosts"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load reads the config file at path over Default and applies env
// overrides. A missing file is fine when path was not set explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
}
