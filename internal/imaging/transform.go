package imaging

import (
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/imagekit/internal/geometry"
)

// Scale resizes to width x height with a Lanczos filter. A zero dimension
// keeps the aspect ratio; when both are zero the image is left alone.
func (i *Image) Scale(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == 0 && height == 0 {
		return i
	}
	i.img = imaging.Resize(i.img, width, height, imaging.Lanczos)
	return i
}

// Cover scales the image so it fills target on both axes, then crops the
// overflow evenly from both ends.
//
// A target with a zero dimension is not an error: the image is just scaled,
// keeping its aspect ratio on the zero axis.
func (i *Image) Cover(target geometry.Size) *Image {
	if target.IsAreaEmpty() {
		slog.Debug("Image: cover with empty target, plain scale", "target", target.String())
		return i.Scale(target.Width(), target.Height())
	}

	scaled := i.Size().ScaledByCoverArea(target)
	i.Scale(scaled.Width(), scaled.Height())

	offset := i.Size().CenteredOffset(target)
	i.img = imaging.Crop(i.img, target.Rect().Add(offset).Add(i.img.Bounds().Min))
	return i
}

// Contain scales the image to fit inside target and centres it on a
// target-sized canvas filled with background. A nil background is
// transparent. A target with a zero dimension is *InvalidSizeError.
func (i *Image) Contain(target geometry.Size, background color.Color) error {
	if target.IsAreaEmpty() {
		return &InvalidSizeError{Width: target.Width(), Height: target.Height()}
	}
	if background == nil {
		background = color.Transparent
	}

	scaled := i.Size().ScaledByContainArea(target)
	i.Scale(scaled.Width(), scaled.Height())

	canvas := imaging.New(target.Width(), target.Height(), background)
	offset := target.CenteredOffset(i.Size())
	b := i.img.Bounds()
	draw.Draw(canvas, b.Sub(b.Min).Add(offset), i.img, b.Min, draw.Over)
	i.img = canvas
	return nil
}

// RotateClockwise turns the image 90 degrees clockwise. Pixels are moved,
// never resampled, so four turns restore the original.
func (i *Image) RotateClockwise() *Image {
	i.img = imaging.Rotate270(i.img)
	return i
}
