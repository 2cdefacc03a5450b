package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytesize-app/bytesize/internal/types"
)

func testCandidates() []types.Candidate {
	return []types.Candidate{
		{Start: 10.0, End: 25.0, Text: "first candidate segment"},
		{Start: 80.0, End: 95.0, Text: "second candidate segment"},
		{Start: 140.0, End: 160.0, Text: "third candidate segment"},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func modelReply(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return b
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestRerank_MapsRankedEntriesBack(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		// Starts drift slightly, must still match within 0.5s.
		w.Write(modelReply(`[{"start": 80.2, "end": 95.0, "reason": "strong hook"}, {"start": 10.1, "end": 25.0, "reason": "clear setup"}]`))
	})

	ranked, err := c.Rerank(context.Background(), testCandidates(), 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked segments, got %d", len(ranked))
	}
	if ranked[0].Start != 80.0 || ranked[0].Reason != "strong hook" {
		t.Fatalf("unexpected first ranked segment: %+v", ranked[0])
	}
	if ranked[1].Start != 10.0 || ranked[1].Text != "first candidate segment" {
		t.Fatalf("expected original candidate carried through: %+v", ranked[1])
	}
}

func TestRerank_ClampsToTopK(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelReply(`[{"start": 10.0, "end": 25.0, "reason": "a"}, {"start": 80.0, "end": 95.0, "reason": "b"}, {"start": 140.0, "end": 160.0, "reason": "c"}]`))
	})
	ranked, err := c.Rerank(context.Background(), testCandidates(), 2)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected topK=2 clamp, got %d", len(ranked))
	}
}

func TestRerank_ProseResponseIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelReply("Sorry, I cannot help with that."))
	})
	if _, err := c.Rerank(context.Background(), testCandidates(), 5); err == nil {
		t.Fatal("expected error for prose response")
	}
}

func TestRerank_JSONObjectIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelReply(`{"clips": []}`))
	})
	if _, err := c.Rerank(context.Background(), testCandidates(), 5); err == nil {
		t.Fatal("expected error for non-array JSON")
	}
}

func TestRerank_EmptyResponseIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})
	if _, err := c.Rerank(context.Background(), testCandidates(), 5); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestRerank_HTTPErrorIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	if _, err := c.Rerank(context.Background(), testCandidates(), 5); err == nil {
		t.Fatal("expected error for HTTP failure status")
	}
}

func TestRerank_UnmatchedStartsSkipped(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelReply(`[{"start": 500.0, "end": 510.0, "reason": "hallucinated"}, {"start": 140.0, "end": 160.0, "reason": "real"}]`))
	})
	ranked, err := c.Rerank(context.Background(), testCandidates(), 5)
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Start != 140.0 {
		t.Fatalf("expected only the matching entry, got %+v", ranked)
	}
}

func TestRerank_NoCandidatesNoCall(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	ranked, err := c.Rerank(context.Background(), nil, 5)
	if err != nil || ranked != nil {
		t.Fatalf("expected nil, nil; got %v, %v", ranked, err)
	}
	if called {
		t.Fatal("expected no HTTP call for empty candidate set")
	}
}

func TestMatchByStart(t *testing.T) {
	cands := testCandidates()
	if _, ok := matchByStart(cands, 10.6); ok {
		t.Fatal("expected no match outside 0.5s tolerance")
	}
	c, ok := matchByStart(cands, 10.4)
	if !ok || c.Start != 10.0 {
		t.Fatalf("expected nearest match 10.0, got %+v (ok=%v)", c, ok)
	}
}
