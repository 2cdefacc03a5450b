package pipeline

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Cool.Video.mp4", now, "a1b2c3d4-0000-0000-0000-000000000000")
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if base != "my-cool-video-20260212-103045Z-a1b2c3" {
		t.Fatalf("unexpected run dir format: %s", base)
	}
}

func TestBuildRunOutDir_UnusableName(t *testing.T) {
	got := buildRunOutDir("out", "/tmp/___.mp4", time.Now(), "deadbeef-0000-0000-0000-000000000000")
	if !strings.HasPrefix(filepath.Base(got), "input-") {
		t.Fatalf("expected input fallback name, got %s", got)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
