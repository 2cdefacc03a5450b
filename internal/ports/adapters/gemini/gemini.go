// Package gemini talks to the Gemini generateContent API to rerank
// highlight candidates. The wire contract is deliberately strict: the
// model is told to answer with a raw JSON array and nothing else, and
// anything that is not a JSON array comes back as an error. Fallback
// to heuristic order is the orchestrator's decision, not this
// package's.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bytesize-app/bytesize/internal/types"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second

	// startMatchTolerance protects the start-time round trip through
	// the service against floating-point drift.
	startMatchTolerance = 0.5
)

type Client struct {
	key     string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// New builds a reranker client. A missing API key is a constructor
// error so the rest of the pipeline stays usable without credentials.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		key:     cfg.APIKey,
		model:   model,
		baseURL: normalizeBaseURL(cfg.BaseURL),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type rankedEntry struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Reason string  `json:"reason"`
}

func (c *Client) Rerank(ctx context.Context, cands []types.Candidate, topK int) ([]types.RankedSegment, error) {
	if topK <= 0 || len(cands) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(cands, topK)}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("gemini timeout after %s (model=%s)", c.timeout, c.model)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(rb), 400))
	}

	var raw struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(raw.Candidates) == 0 || len(raw.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini: empty response")
	}

	text := strings.TrimSpace(raw.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, errors.New("gemini: empty response text")
	}
	if !strings.HasPrefix(text, "[") {
		return nil, fmt.Errorf("gemini: non-JSON response: %s", truncate(text, 120))
	}

	var ranked []rankedEntry
	if err := json.Unmarshal([]byte(text), &ranked); err != nil {
		return nil, fmt.Errorf("gemini: parse ranked array: %w", err)
	}

	out := make([]types.RankedSegment, 0, topK)
	for _, r := range ranked {
		cand, ok := matchByStart(cands, r.Start)
		if !ok {
			continue
		}
		out = append(out, types.RankedSegment{Candidate: cand, Reason: r.Reason})
		if len(out) >= topK {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New("gemini: no ranked entry matched a candidate")
	}
	return out, nil
}

// matchByStart maps a service-returned start time back to the nearest
// original candidate within the tolerance.
func matchByStart(cands []types.Candidate, start float64) (types.Candidate, bool) {
	bestIdx := -1
	bestDist := startMatchTolerance
	for i, c := range cands {
		d := math.Abs(c.Start - start)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return types.Candidate{}, false
	}
	return cands[bestIdx], true
}

func buildPrompt(cands []types.Candidate, topK int) string {
	var b strings.Builder
	for _, c := range cands {
		fmt.Fprintf(&b, "[%.2f - %.2f] %s\n", c.Start, c.End, c.Text)
	}
	return fmt.Sprintf(`You are a JSON API.

Your task is to select the TOP %d transcript segments
that are best suited for a 40-100 second social media reel.

STRICT RULES:
- Respond with RAW JSON ONLY
- Do NOT include markdown
- Do NOT include explanations
- Do NOT include backticks
- Do NOT include extra text
- Output must be valid JSON

JSON FORMAT (must match exactly):
[
  {
    "start": <float>,
    "end": <float>,
    "reason": "<string>"
  }
]

Transcript:
%s`, topK, b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
