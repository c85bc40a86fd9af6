package imaging

import (
	"image"
	"image/color"
	"image/png"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/imagekit/internal/geometry"
)

// Presets for the optimize family.
const (
	SuperThumbnailQuality = 40
	PhotoQuality          = 75
	DocumentQuality       = 60

	superThumbnailSigma = 1.0
	jpegBlock           = 8

	normalizeClip    = 0.005
	levelBlackPoint  = 0.10
	levelWhitePoint  = 0.90
	documentContrast = 0.20
)

// MakeSuperThumbnail turns the image into a tiny, heavily compressed
// grayscale JPEG of exactly width x height. A zero dimension keeps the
// aspect ratio. Transparent areas are flattened onto white first since JPEG
// has no alpha.
//
// The image is reduced to one sample per 8x8 JPEG block with a Gaussian
// filter, blurred at that scale and grayscaled, then each sample fills its
// whole block. Every block then encodes as a DC term with no AC
// coefficients, so the file is the fixed JPEG header (about 370 bytes) plus
// at most 2 bytes per block whatever the content: a 100x100 thumbnail stays
// under 1KB. The result is a stable input for visual comparison.
func (i *Image) MakeSuperThumbnail(width, height int) *Image {
	target := superThumbnailSize(i.Size(), width, height)

	b := i.img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, i.img, image.Pt(0, 0), 1.0)

	cols := (target.Width() + jpegBlock - 1) / jpegBlock
	rows := (target.Height() + jpegBlock - 1) / jpegBlock
	samples := imaging.Resize(flat, cols, rows, imaging.Gaussian)
	samples = imaging.Blur(imaging.Grayscale(samples), superThumbnailSigma)

	// A single channel image encodes as one-component JPEG, which halves
	// the table overhead.
	gray := image.NewGray(target.Rect())
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			block := image.Rect(x*jpegBlock, y*jpegBlock, (x+1)*jpegBlock, (y+1)*jpegBlock)
			level := color.Gray{Y: samples.NRGBAAt(x, y).R}
			draw.Draw(gray, block, image.NewUniform(level), image.Point{}, draw.Src)
		}
	}

	i.img = gray
	i.format = FormatJPEG
	i.quality = SuperThumbnailQuality
	i.stripped = true
	return i
}

// superThumbnailSize resolves zero dimensions against the source aspect
// ratio. Both zero keeps the source size; the result is at least 1x1.
func superThumbnailSize(source geometry.Size, width, height int) geometry.Size {
	var target geometry.Size
	switch {
	case width > 0 && height > 0:
		target = geometry.NewSize(width, height)
	case width > 0:
		target = source.ScaledByWidth(width)
	case height > 0:
		target = source.ScaledByHeight(height)
	default:
		target = source
	}
	return geometry.NewSize(max(target.Width(), 1), max(target.Height(), 1))
}

// OptimizePhoto prepares the image for web delivery as a JPEG at quality 75
// with 4:2:0 chroma subsampling and no metadata.
func (i *Image) OptimizePhoto() *Image {
	i.format = FormatJPEG
	i.quality = PhotoQuality
	i.stripped = true
	return i
}

// OptimizeLossless prepares the image as a PNG with the best compression and
// no metadata.
func (i *Image) OptimizeLossless() *Image {
	i.format = FormatPNG
	i.compression = png.BestCompression
	i.stripped = true
	return i
}

// Optimize picks OptimizePhoto for JPEG images and OptimizeLossless for
// everything else.
func (i *Image) Optimize() *Image {
	if i.format == FormatJPEG {
		return i.OptimizePhoto()
	}
	return i.OptimizeLossless()
}

// OptimizeDocument prepares a scanned document as a JPEG at quality 60 with
// interlacing requested and no metadata.
func (i *Image) OptimizeDocument() *Image {
	i.format = FormatJPEG
	i.quality = DocumentQuality
	i.interlace = true
	i.stripped = true
	return i
}

// EnhanceDocument whitens the paper and darkens the ink of a scanned page:
// the luminance range is stretched (ignoring the extreme 0.5% on each side),
// levelled between 10% and 90%, and the contrast raised by 20%.
func (i *Image) EnhanceDocument() *Image {
	low, high := histogramRange(imaging.Histogram(i.img), normalizeClip)
	lut := documentLUT(low, high)

	leveled := imaging.AdjustFunc(i.img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	i.img = imaging.Clone(adjust.Contrast(leveled, documentContrast))
	return i
}

// histogramRange returns the darkest and brightest levels left after
// discarding clip of the pixels from each end of a normalized histogram.
func histogramRange(hist [256]float64, clip float64) (low, high int) {
	var sum float64
	for low = 0; low < 255; low++ {
		sum += hist[low]
		if sum > clip {
			break
		}
	}
	sum = 0
	for high = 255; high > 0; high-- {
		sum += hist[high]
		if sum > clip {
			break
		}
	}
	if high <= low {
		return 0, 255
	}
	return low, high
}

// documentLUT composes the normalize stretch with the level stretch.
func documentLUT(low, high int) [256]uint8 {
	black := levelBlackPoint * 255
	white := levelWhitePoint * 255

	var lut [256]uint8
	for v := 0; v < 256; v++ {
		n := stretch(float64(v), float64(low), float64(high))
		lut[v] = clamp8(stretch(n, black, white))
	}
	return lut
}

func stretch(v, from, to float64) float64 {
	return (v - from) * 255 / (to - from)
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
