// Package captions builds the drawtext overlay for caption burn-in.
package captions

import (
	"fmt"
	"strings"
)

// Sanitize strips characters that break drawtext filter syntax
// (colons and quotes) and collapses newlines to spaces.
func Sanitize(text string) string {
	r := strings.NewReplacer(
		":", "",
		"'", "",
		`"`, "",
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
	return strings.TrimSpace(r.Replace(text))
}

// DrawtextFilter renders the caption centered horizontally near the
// bottom of frame, on a semi-opaque box for legibility.
func DrawtextFilter(text string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=52:box=1:boxcolor=black@0.65:boxborderw=14:x=(w-text_w)/2:y=h-300",
		Sanitize(text),
	)
}
