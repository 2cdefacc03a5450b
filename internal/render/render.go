// Package render turns a resolved time interval into the three reel
// artifacts: a horizontal cut, a 9:16 vertical version and a
// caption-burned version. All media work goes through the MediaBackend
// port so the logic is testable against a fake.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bytesize-app/bytesize/internal/domain/captions"
	"github.com/bytesize-app/bytesize/internal/ports"
	"github.com/bytesize-app/bytesize/internal/types"
)

type Renderer struct {
	media ports.MediaBackend
}

func New(media ports.MediaBackend) Renderer {
	return Renderer{media: media}
}

// Render produces the reel triple for interval idx (1-based). Output
// names are fixed per index, so re-running the same inputs overwrites
// the previous files instead of accumulating copies. Any backend
// failure aborts this reel: a missing intermediate makes the next step
// meaningless.
func (r Renderer) Render(
	ctx context.Context,
	source string,
	iv types.Interval,
	caption string,
	outDir string,
	idx int,
) (types.ReelArtifact, error) {
	info, err := r.media.Probe(ctx, source)
	if err != nil {
		return types.ReelArtifact{}, fmt.Errorf("probe source: %w", err)
	}

	end := iv.End
	if limit := info.Duration.Seconds(); end > limit {
		end = limit
	}
	if end <= iv.Start {
		return types.ReelArtifact{}, fmt.Errorf("interval [%.2f, %.2f] is outside the source", iv.Start, iv.End)
	}

	art := types.ReelArtifact{
		Horizontal: filepath.Join(outDir, fmt.Sprintf("reel_%d.mp4", idx)),
		Vertical:   filepath.Join(outDir, fmt.Sprintf("reel_%d_vertical.mp4", idx)),
		Captioned:  filepath.Join(outDir, fmt.Sprintf("reel_%d_vertical_captioned.mp4", idx)),
	}

	if err := r.media.CutClip(ctx, source, dur(iv.Start), dur(end), art.Horizontal); err != nil {
		return types.ReelArtifact{}, fmt.Errorf("cut clip %d: %w", idx, err)
	}

	clipInfo, err := r.media.Probe(ctx, art.Horizontal)
	if err != nil {
		return types.ReelArtifact{}, fmt.Errorf("probe clip %d: %w", idx, err)
	}
	filter := VerticalFilter(clipInfo.Width, clipInfo.Height)
	if err := r.media.Transcode(ctx, art.Horizontal, filter, art.Vertical, false); err != nil {
		return types.ReelArtifact{}, fmt.Errorf("vertical convert %d: %w", idx, err)
	}

	// Captions are a visual-only change, so the audio track is copied.
	if err := r.media.Transcode(ctx, art.Vertical, captions.DrawtextFilter(caption), art.Captioned, true); err != nil {
		return types.ReelArtifact{}, fmt.Errorf("caption burn %d: %w", idx, err)
	}

	return art, nil
}

// VerticalFilter picks the 9:16 normalization graph for a source of
// the given dimensions. Portrait input is scaled to fit 1080x1920 with
// no cropping or padding; landscape input is scaled to width 1080 and
// center-padded top/bottom with black. Frame content is never cropped.
func VerticalFilter(width, height int) string {
	if height >= width {
		return "scale=1080:1920:force_original_aspect_ratio=decrease"
	}
	return "scale=1080:-1,pad=1080:1920:(ow-iw)/2:(oh-ih)/2:color=black"
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
