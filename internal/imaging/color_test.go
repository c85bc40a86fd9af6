package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// rgba8 returns the non-premultiplied 8-bit components at (x, y).
func rgba8(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.NRGBA
	}{
		{"red", color.NRGBA{255, 0, 0, 255}},
		{"  Blue", color.NRGBA{0, 0, 255, 255}},
		{"cornflowerblue", color.NRGBA{100, 149, 237, 255}},
		{"#ff8000", color.NRGBA{255, 128, 0, 255}},
		{"#F80", color.NRGBA{255, 136, 0, 255}},
		{"00ff00", color.NRGBA{0, 255, 0, 255}},
		{"#11223380", color.NRGBA{0x11, 0x22, 0x33, 0x80}},
		{"transparent", color.NRGBA{0, 0, 0, 0}},
		{" transparent", color.NRGBA{0, 0, 0, 0}},
		{"", color.NRGBA{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.input, err)
			}
			got := color.NRGBAModel.Convert(c).(color.NRGBA)
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, input := range []string{"notacolour", "#12", "#gggggg", "#1234567"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseColor(input); err == nil {
				t.Errorf("ParseColor(%q) should fail", input)
			}
		})
	}
}

func TestColorOverlay(t *testing.T) {
	// Opaque black square on a transparent background with one half
	// transparent pixel.
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			src.Set(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	src.Set(0, 9, color.NRGBA{0, 0, 0, 128})

	img := New(src, FormatPNG).ColorOverlay(color.NRGBA{255, 0, 0, 255})

	if got := rgba8(img.Image(), 5, 5); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("silhouette pixel: got %v, want opaque red", got)
	}
	if got := rgba8(img.Image(), 0, 0); got.A != 0 {
		t.Errorf("background pixel should stay transparent, got %v", got)
	}
	half := rgba8(img.Image(), 0, 9)
	if half.A < 126 || half.A > 130 || half.R < 250 {
		t.Errorf("partial pixel should be half transparent red, got %v", half)
	}
	if img.Size().Width() != 10 || img.Size().Height() != 10 {
		t.Errorf("size changed: %s", img.Size())
	}
}

func TestColorOverlayNamed(t *testing.T) {
	img := New(createInMemoryImage(4, 4, color.NRGBA{0, 0, 0, 255}), FormatPNG)

	if err := img.ColorOverlayNamed("green"); err != nil {
		t.Fatalf("ColorOverlayNamed failed: %v", err)
	}
	if got := rgba8(img.Image(), 1, 1); got != (color.NRGBA{0, 128, 0, 255}) {
		t.Errorf("got %v, want css green", got)
	}

	if err := img.ColorOverlayNamed("bogus"); err == nil {
		t.Error("expected error for unknown colour")
	}
}
