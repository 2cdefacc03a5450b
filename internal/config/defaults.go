package config

const (
	defaultTopKPeaks     = 5
	defaultPeakWindowSec = 15
	defaultMinWords      = 6
	defaultReels         = 5
	defaultMinReelSec    = 40
	defaultMaxReelSec    = 100
	defaultOutputDir     = "out"
	defaultCacheDir      = ".cache"
	defaultWhisperBin    = ".cache/bin/whisper.cpp"
	defaultWhisperModel  = ".cache/models/ggml-base.bin"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiTimeout = 60
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pipeline: Pipeline{
			TopKPeaks:     defaultTopKPeaks,
			PeakWindowSec: defaultPeakWindowSec,
			MinWords:      defaultMinWords,
			Reels:         defaultReels,
			MinReelSec:    defaultMinReelSec,
			MaxReelSec:    defaultMaxReelSec,
			OutputDir:     defaultOutputDir,
			CacheDir:      defaultCacheDir,
		},
		Whisper: Whisper{
			Bin:   defaultWhisperBin,
			Model: defaultWhisperModel,
		},
		Gemini: Gemini{
			Model:          defaultGeminiModel,
			BaseURL:        defaultGeminiBaseURL,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
