package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Rect is a rectangle in physical units (millimetres, points, inches...).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Crop cuts the image to r, clipped to the image bounds. An empty result is
// *InvalidSizeError.
func (i *Image) Crop(r image.Rectangle) error {
	b := i.img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	if r.Empty() {
		return &InvalidSizeError{Width: r.Dx(), Height: r.Dy()}
	}
	i.img = imaging.Crop(i.img, r)
	return nil
}

// CropPhysical crops using a rectangle in physical units. unitsPerPixel is
// how many units one pixel spans; every coordinate becomes
// ceil(value / unitsPerPixel) pixels.
func (i *Image) CropPhysical(r Rect, unitsPerPixel float64) error {
	if unitsPerPixel <= 0 || math.IsNaN(unitsPerPixel) || math.IsInf(unitsPerPixel, 0) {
		return &InvalidSizeError{}
	}
	toPixels := func(v float64) int {
		return int(math.Ceil(v / unitsPerPixel))
	}

	x, y := toPixels(r.X), toPixels(r.Y)
	w, h := toPixels(r.Width), toPixels(r.Height)
	if w <= 0 || h <= 0 {
		return &InvalidSizeError{Width: w, Height: h}
	}
	return i.Crop(image.Rect(x, y, x+w, y+h))
}

// Trim removes the border that shares the colour of the top-left corner
// after a one pixel transparent frame has been added, so in practice it
// strips fully transparent margins. Images with nothing to keep are left
// unchanged.
func (i *Image) Trim() *Image {
	b := i.img.Bounds()
	canvas := imaging.New(b.Dx()+2, b.Dy()+2, color.NRGBA{})
	canvas = imaging.Paste(canvas, i.img, image.Pt(1, 1))

	box, ok := contentBounds(canvas)
	if !ok {
		return i
	}
	i.img = imaging.Crop(canvas, box)
	return i
}

// contentBounds finds the smallest rectangle holding every pixel that
// differs from the top-left pixel. Two fully transparent pixels are equal
// whatever their colour channels hold.
func contentBounds(img *image.NRGBA) (image.Rectangle, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	ref := img.Pix[0:4]
	same := func(p []uint8) bool {
		if p[3] == 0 && ref[3] == 0 {
			return true
		}
		return p[0] == ref[0] && p[1] == ref[1] && p[2] == ref[2] && p[3] == ref[3]
	}

	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if same(row[x*4 : x*4+4]) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
