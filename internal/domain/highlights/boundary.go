package highlights

import (
	"strings"

	"github.com/bytesize-app/bytesize/internal/types"
)

// conclusionMarkers signal a thought wrapping up. Checked before
// punctuation so a semantic closure beats a mechanical one at the same
// scan position.
var conclusionMarkers = []string{
	"so",
	"that's why",
	"this is why",
	"in summary",
	"which means",
	"the key takeaway",
	"overall",
	"to conclude",
	"in conclusion",
}

// ResolveEnd scans the transcript (assumed Start-ascending) for a
// natural end of a reel beginning at start. The first segment whose
// end reaches start+minLen opens the decision window; from there, in
// scan order:
//
//  1. a conclusion marker inside maxLen returns that segment's end,
//  2. otherwise terminal punctuation inside maxLen returns it,
//  3. otherwise once maxLen is overrun the cut is forced at start+maxLen.
//
// ok is false when the transcript runs out before any rule fires; the
// caller applies its fixed default duration.
func ResolveEnd(start float64, segments []types.Segment, minLen, maxLen float64) (end float64, ok bool) {
	for _, seg := range segments {
		if seg.End < start+minLen {
			continue
		}

		duration := seg.End - start
		text := strings.ToLower(strings.TrimSpace(seg.Text))

		if hasConclusionMarker(text) && duration <= maxLen {
			return seg.End, true
		}
		if endsSentence(text) && duration <= maxLen {
			return seg.End, true
		}
		if duration >= maxLen {
			return start + maxLen, true
		}
	}
	return 0, false
}

func hasConclusionMarker(lower string) bool {
	for _, m := range conclusionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}
