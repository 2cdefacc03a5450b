package types

// Segment is one transcript sentence with source-video timestamps in
// seconds. The ASR emits segments ordered by Start ascending; the
// boundary resolver relies on that order.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Candidate is a transcript segment that sits near a loudness peak and
// carries enough words to stand alone. Identity is (Start, End).
type Candidate struct {
	Start float64
	End   float64
	Text  string
}

// RankedSegment is a candidate after semantic reranking. Reason is
// empty when the reranker was skipped or fell back.
type RankedSegment struct {
	Candidate
	Reason string
}

// Interval is a resolved reel time range in seconds.
type Interval struct {
	Start float64
	End   float64
}

func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// ReelArtifact holds the three files produced for one reel. They are
// always written together; a partial triple means the render failed.
type ReelArtifact struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	Captioned  string `json:"captioned"`
}

type Manifest struct {
	Input string         `json:"input"`
	RunID string         `json:"run_id"`
	Reels []ManifestReel `json:"reels"`
}

type ManifestReel struct {
	ID         int     `json:"id"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Text       string  `json:"text"`
	Reason     string  `json:"reason,omitempty"`
	Horizontal string  `json:"horizontal"`
	Vertical   string  `json:"vertical"`
	Captioned  string  `json:"captioned"`
}
