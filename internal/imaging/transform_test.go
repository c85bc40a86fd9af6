package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/imagekit/internal/geometry"
)

// halvesImage is red on the left half and blue on the right half.
func halvesImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.NRGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.NRGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestScale(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"exact", 50, 20, 50, 20},
		{"width only keeps aspect", 50, 0, 50, 25},
		{"height only keeps aspect", 0, 10, 20, 10},
		{"both zero is a no-op", 0, 0, 100, 50},
		{"negative treated as zero", -5, 10, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(halvesImage(100, 50), FormatPNG).Scale(tt.w, tt.h)
			if img.Size().Width() != tt.wantW || img.Size().Height() != tt.wantH {
				t.Errorf("dimensions: got %s, want %dx%d", img.Size(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCover(t *testing.T) {
	tests := []struct {
		name   string
		source image.Image
		target geometry.Size
	}{
		{"landscape into square", halvesImage(100, 50), geometry.NewSize(20, 20)},
		{"landscape into portrait", halvesImage(100, 50), geometry.NewSize(9, 13)},
		{"portrait into landscape", createPatternImage(30, 90), geometry.NewSize(40, 10)},
		{"same aspect", createPatternImage(64, 48), geometry.NewSize(32, 24)},
		{"upscale", createPatternImage(10, 10), geometry.NewSize(40, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(tt.source, FormatPNG).Cover(tt.target)
			if img.Size() != tt.target {
				t.Errorf("dimensions: got %s, want %s", img.Size(), tt.target)
			}
		})
	}
}

func TestCover_CropsCentre(t *testing.T) {
	// 100x50 covering 20x20 scales to 40x20 and drops 10 columns per side,
	// so the red/blue boundary stays in the middle.
	img := New(halvesImage(100, 50), FormatPNG).Cover(geometry.NewSize(20, 20))

	left := rgba8(img.Image(), 2, 10)
	right := rgba8(img.Image(), 17, 10)
	if left.R < 240 || left.B > 15 {
		t.Errorf("left side should be red, got %v", left)
	}
	if right.B < 240 || right.R > 15 {
		t.Errorf("right side should be blue, got %v", right)
	}
}

func TestCover_EmptyTargetScales(t *testing.T) {
	img := New(halvesImage(100, 50), FormatPNG).Cover(geometry.NewSize(0, 30))

	if img.Size().Width() != 60 || img.Size().Height() != 30 {
		t.Errorf("dimensions: got %s, want 60x30", img.Size())
	}
}

func TestContain(t *testing.T) {
	img := New(createInMemoryImage(100, 50, color.NRGBA{0, 0, 255, 255}), FormatPNG)

	if err := img.Contain(geometry.NewSize(20, 20), color.NRGBA{255, 0, 0, 255}); err != nil {
		t.Fatalf("Contain failed: %v", err)
	}
	if img.Size().Width() != 20 || img.Size().Height() != 20 {
		t.Fatalf("dimensions: got %s, want 20x20", img.Size())
	}

	// Scaled to 20x10 and centred: rows 0-4 and 15-19 are background.
	if got := rgba8(img.Image(), 10, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("top band: got %v, want red background", got)
	}
	if got := rgba8(img.Image(), 10, 18); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("bottom band: got %v, want red background", got)
	}
	if got := rgba8(img.Image(), 10, 10); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("centre: got %v, want blue image", got)
	}
}

func TestContain_DefaultBackgroundTransparent(t *testing.T) {
	img := New(createInMemoryImage(30, 90, color.NRGBA{0, 255, 0, 255}), FormatPNG)

	if err := img.Contain(geometry.NewSize(90, 132), nil); err != nil {
		t.Fatalf("Contain failed: %v", err)
	}
	if img.Size().Width() != 90 || img.Size().Height() != 132 {
		t.Fatalf("dimensions: got %s, want 90x132", img.Size())
	}
	if got := rgba8(img.Image(), 1, 66); got.A != 0 {
		t.Errorf("margin should be transparent, got %v", got)
	}
	if got := rgba8(img.Image(), 45, 66); got.A != 255 || got.G < 250 {
		t.Errorf("centre should be opaque green, got %v", got)
	}
}

func TestContain_EmptyTarget(t *testing.T) {
	targets := []geometry.Size{
		geometry.NewSize(0, 0),
		geometry.NewSize(0, 10),
		geometry.NewSize(10, 0),
	}

	for _, target := range targets {
		t.Run(target.String(), func(t *testing.T) {
			img := New(createPatternImage(10, 10), FormatPNG)
			err := img.Contain(target, nil)

			var sizeErr *InvalidSizeError
			if !errors.As(err, &sizeErr) {
				t.Fatalf("expected *InvalidSizeError, got %v", err)
			}
			if sizeErr.Width != target.Width() || sizeErr.Height != target.Height() {
				t.Errorf("error carries %dx%d, want %s", sizeErr.Width, sizeErr.Height, target)
			}
			if !errors.Is(err, ErrInvalidSize) {
				t.Error("errors.Is(err, ErrInvalidSize) should be true")
			}
		})
	}
}

func TestRotateClockwise(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src.Set(1, 0, color.NRGBA{0, 0, 255, 255})

	img := New(src, FormatPNG).RotateClockwise()

	if img.Size().Width() != 1 || img.Size().Height() != 2 {
		t.Fatalf("dimensions: got %s, want 1x2", img.Size())
	}
	if got := rgba8(img.Image(), 0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("top: got %v, want red", got)
	}
	if got := rgba8(img.Image(), 0, 1); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("bottom: got %v, want blue", got)
	}
}

func TestRotateClockwise_FourTurnsRoundTrip(t *testing.T) {
	original := createPatternImage(37, 21)
	img := New(original, FormatPNG)

	for n := 0; n < 4; n++ {
		img.RotateClockwise()
	}

	var before, after bytes.Buffer
	if _, err := New(original, FormatPNG).WriteTo(&before); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if _, err := img.WriteTo(&after); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if !bytes.Equal(before.Bytes(), after.Bytes()) {
		t.Error("four clockwise rotations should restore identical bytes")
	}
}
