// Package geometry computes the target dimensions used by cover and contain
// layouts.
//
// All arithmetic is integer arithmetic with truncation, so scaled sizes may be
// one pixel short of the exact proportional value.
package geometry

import (
	"fmt"
	"image"
)

// Size is an immutable width/height pair. Both values are >= 0.
type Size struct {
	width  int
	height int
}

// NewSize returns a Size. Negative values are clamped to 0.
func NewSize(width, height int) Size {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Size{width: width, height: height}
}

// FromImage returns the size of img's bounds.
func FromImage(img image.Image) Size {
	b := img.Bounds()
	return NewSize(b.Dx(), b.Dy())
}

// Width returns the width.
func (s Size) Width() int { return s.width }

// Height returns the height.
func (s Size) Height() int { return s.height }

// IsAreaEmpty reports whether either dimension is 0.
func (s Size) IsAreaEmpty() bool {
	return s.width == 0 || s.height == 0
}

// String formats the size as WxH.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

// ScaledByWidth returns a size with the given width and the height scaled to
// keep the aspect ratio. A zero-width source yields height 0.
func (s Size) ScaledByWidth(newWidth int) Size {
	if s.width == 0 {
		return NewSize(newWidth, 0)
	}
	return NewSize(newWidth, s.height*newWidth/s.width)
}

// ScaledByHeight returns a size with the given height and the width scaled to
// keep the aspect ratio. A zero-height source yields width 0.
func (s Size) ScaledByHeight(newHeight int) Size {
	if s.height == 0 {
		return NewSize(0, newHeight)
	}
	return NewSize(s.width*newHeight/s.height, newHeight)
}

// ScaledByCoverArea returns the proportional size that covers area on both
// axes. The result is always >= area in width and height.
//
// The height-scaled candidate wins ties: scaling by width after a truncated
// tie can leave the height one pixel short of the area.
func (s Size) ScaledByCoverArea(area Size) Size {
	byHeight := s.ScaledByHeight(area.height)
	if byHeight.width >= area.width {
		return byHeight
	}
	return s.ScaledByWidth(area.width)
}

// ScaledByContainArea returns the proportional size that fits inside area on
// both axes. The result is always <= area in width and height.
func (s Size) ScaledByContainArea(area Size) Size {
	byHeight := s.ScaledByHeight(area.height)
	if byHeight.width < area.width {
		return byHeight
	}
	return s.ScaledByWidth(area.width)
}

// CenteredLeft is the x offset that centres inner horizontally inside s.
// It is negative when inner is wider than s.
func (s Size) CenteredLeft(inner Size) int {
	return (s.width - inner.width) / 2
}

// CenteredTop is the y offset that centres inner vertically inside s.
// It is negative when inner is taller than s.
func (s Size) CenteredTop(inner Size) int {
	return (s.height - inner.height) / 2
}

// CenteredOffset returns CenteredLeft and CenteredTop as a point.
func (s Size) CenteredOffset(inner Size) image.Point {
	return image.Pt(s.CenteredLeft(inner), s.CenteredTop(inner))
}

// Rect returns the rectangle (0,0)-(width,height).
func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}
