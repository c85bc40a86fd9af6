package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// ParseColor converts a colour description into a color.Color.
//
// Accepted forms, case-insensitive and with surrounding whitespace ignored:
//   - "" or "transparent": fully transparent
//   - CSS/SVG colour names such as "red" or "cornflowerblue"
//   - "#rgb" and "#rrggbb"
//   - "#rrggbbaa" with alpha in the last byte
//
// The leading '#' may be omitted for hex forms.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "transparent" || s == "none" {
		return color.Transparent, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return color.NRGBA{
			R: uint8(val >> 24),
			G: uint8(val >> 16),
			B: uint8(val >> 8),
			A: uint8(val),
		}, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}

// ColorOverlay paints the whole image with c while keeping its alpha
// channel: opaque pixels become c, transparent ones stay transparent and
// partial coverage keeps its partial opacity. It is meant for recolouring
// monochrome silhouettes and icons.
func (i *Image) ColorOverlay(c color.Color) *Image {
	b := i.img.Bounds()
	flat := image.NewUniform(c)
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(dst, dst.Bounds(), flat, image.Point{}, i.img, b.Min, draw.Src)
	i.img = dst
	return i
}

// ColorOverlayNamed parses name with ParseColor and applies ColorOverlay.
func (i *Image) ColorOverlayNamed(name string) error {
	c, err := ParseColor(name)
	if err != nil {
		return err
	}
	i.ColorOverlay(c)
	return nil
}
