package svg

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Renderer rasterizes SVG in-process with oksvg. It covers the common subset
// of SVG (paths, basic shapes, gradients) and is meant for hosts without
// rsvg-convert installed; text and filters are not rendered.
type Renderer struct {
	// FallbackHeight is used when the document has no usable viewBox.
	FallbackHeight int
}

// NewRenderer returns a Renderer with a square fallback.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Rasterize renders input at width pixels, deriving the height from the
// viewBox aspect ratio, onto a transparent canvas. The PNG is written to a
// scratch file owned by the caller.
func (r *Renderer) Rasterize(ctx context.Context, input string, width int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if width <= 0 {
		width = DefaultWidth
	}

	f, err := os.Open(input)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", input, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
	if err != nil {
		return "", &ConvertError{Output: fmt.Sprintf("failed to parse SVG: %v", err)}
	}

	height := r.heightFor(icon.ViewBox.W, icon.ViewBox.H, width)
	slog.Debug("Renderer: rendering SVG",
		"input", input,
		"viewbox_w", icon.ViewBox.W,
		"viewbox_h", icon.ViewBox.H,
		"width", width,
		"height", height)

	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)

	out, err := os.CreateTemp("", "svg-out-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(out, dst); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return out.Name(), nil
}

func (r *Renderer) heightFor(viewW, viewH float64, width int) int {
	if viewW > 0 && viewH > 0 {
		h := int(math.Round(float64(width) * viewH / viewW))
		if h < 1 {
			h = 1
		}
		return h
	}
	if r.FallbackHeight > 0 {
		return r.FallbackHeight
	}
	return width
}
