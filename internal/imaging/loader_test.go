package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/imagekit/internal/media"
	"github.com/ironsheep/imagekit/internal/svg"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// createTestJPEG writes a JPEG without an extension so that only content
// sniffing can identify it.
func createTestJPEG(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, createPatternImage(width, height), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return path
}

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect x="25" y="25" width="50" height="50" fill="#00ff00"/></svg>`

// fakeRasterizer writes a fixed image as the rasterized output.
type fakeRasterizer struct {
	img       image.Image
	gotWidth  int
	gotInput  string
	inputData []byte
	err       error
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, input string, width int) (string, error) {
	f.gotWidth = width
	f.gotInput = input
	f.inputData, _ = os.ReadFile(input)
	if f.err != nil {
		return "", f.err
	}
	out, err := os.CreateTemp("", "fake-raster-*.png")
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := png.Encode(out, f.img); err != nil {
		return "", err
	}
	return out.Name(), nil
}

// marginImage is a w x h opaque block inside a transparent margin.
func marginImage(w, h, margin int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w+2*margin, h+2*margin))
	for y := margin; y < margin+h; y++ {
		for x := margin; x < margin+w; x++ {
			img.Set(x, y, color.NRGBA{0, 255, 0, 255})
		}
	}
	return img
}

func TestLoader_OpenPNG(t *testing.T) {
	path := createTestImage(t, 100, 50, color.NRGBA{255, 0, 0, 255})
	defer os.Remove(path)

	img, err := NewLoader(nil).Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Size().Width() != 100 || img.Size().Height() != 50 {
		t.Errorf("dimensions: got %s, want 100x50", img.Size())
	}
	if img.Format() != FormatPNG {
		t.Errorf("Format: got %s, want png", img.Format())
	}
}

func TestLoader_OpenJPEGBySniffing(t *testing.T) {
	path := createTestJPEG(t, 64, 32)

	img, err := NewLoader(nil).Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Format() != FormatJPEG {
		t.Errorf("Format: got %s, want jpeg", img.Format())
	}
	if img.Size().Width() != 64 || img.Size().Height() != 32 {
		t.Errorf("dimensions: got %s, want 64x32", img.Size())
	}
}

func TestLoader_OpenNonExistent(t *testing.T) {
	if _, err := NewLoader(nil).Open(context.Background(), "/nonexistent/image.png"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoader_WrongFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("this is not an image\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := NewLoader(nil).Open(context.Background(), path)

	var wrong *WrongFormatError
	if !errors.As(err, &wrong) {
		t.Fatalf("expected *WrongFormatError, got %v", err)
	}
	if wrong.MediaType != "text/plain" {
		t.Errorf("MediaType: got %q, want text/plain", wrong.MediaType)
	}
	if !errors.Is(err, ErrWrongFormat) {
		t.Error("errors.Is(err, ErrWrongFormat) should be true")
	}
}

func TestLoader_Decode(t *testing.T) {
	path := createTestImage(t, 30, 20, color.NRGBA{0, 0, 255, 255})
	defer os.Remove(path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	img, err := NewLoader(nil).Decode(context.Background(), data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Size().Width() != 30 || img.Size().Height() != 20 {
		t.Errorf("dimensions: got %s, want 30x20", img.Size())
	}
}

func TestLoader_DecodeWrongFormat(t *testing.T) {
	_, err := NewLoader(nil).Decode(context.Background(), []byte{0x00, 0x01, 0x02, 0x03})

	var wrong *WrongFormatError
	if !errors.As(err, &wrong) {
		t.Fatalf("expected *WrongFormatError, got %v", err)
	}
	if wrong.MediaType != "application/octet-stream" {
		t.Errorf("MediaType: got %q", wrong.MediaType)
	}
}

func TestLoader_SVGRasterizedAndTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte(testSVG), 0644); err != nil {
		t.Fatalf("failed to write svg: %v", err)
	}

	fake := &fakeRasterizer{img: marginImage(40, 20, 7)}
	loader := NewLoader(fake)
	loader.SVGWidth = 321

	img, err := loader.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if fake.gotWidth != 321 {
		t.Errorf("rasterizer width: got %d, want 321", fake.gotWidth)
	}
	if img.Size().Width() != 40 || img.Size().Height() != 20 {
		t.Errorf("dimensions: got %s, want trimmed 40x20", img.Size())
	}
	if img.Format() != FormatPNG {
		t.Errorf("Format: got %s, want png", img.Format())
	}
}

func TestLoader_DecodeSVGUsesScratchFile(t *testing.T) {
	fake := &fakeRasterizer{img: marginImage(10, 10, 2)}

	img, err := NewLoader(fake).Decode(context.Background(), []byte(testSVG))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(fake.inputData) != testSVG {
		t.Error("rasterizer should receive the SVG bytes")
	}
	if _, err := os.Stat(fake.gotInput); !os.IsNotExist(err) {
		t.Error("scratch SVG should be removed")
	}
	if img.Size().Width() != 10 || img.Size().Height() != 10 {
		t.Errorf("dimensions: got %s, want 10x10", img.Size())
	}
}

func TestLoader_SVGRasterizerError(t *testing.T) {
	fake := &fakeRasterizer{err: &svg.ConvertError{Output: "boom"}}

	_, err := NewLoader(fake).Decode(context.Background(), []byte(testSVG))
	if !errors.Is(err, svg.ErrConvert) {
		t.Errorf("expected svg.ErrConvert, got %v", err)
	}
}

// textRasterizer exits cleanly but leaves a non-PNG file behind.
type textRasterizer struct {
	output string
}

func (r *textRasterizer) Rasterize(ctx context.Context, input string, width int) (string, error) {
	out, err := os.CreateTemp("", "text-raster-*.png")
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := out.WriteString("rendering failed\n"); err != nil {
		return "", err
	}
	r.output = out.Name()
	return "", &svg.InvalidOutputError{Path: out.Name(), MediaType: "text/plain"}
}

func TestLoader_SVGInvalidOutputRemoved(t *testing.T) {
	fake := &textRasterizer{}

	_, err := NewLoader(fake).Decode(context.Background(), []byte(testSVG))
	if !errors.Is(err, svg.ErrInvalidOutput) {
		t.Fatalf("expected svg.ErrInvalidOutput, got %v", err)
	}
	if fake.output == "" {
		t.Fatal("rasterizer was not called")
	}
	if _, statErr := os.Stat(fake.output); !os.IsNotExist(statErr) {
		os.Remove(fake.output)
		t.Errorf("invalid output %s should be removed, stat: %v", fake.output, statErr)
	}
}

func TestLoader_SVGWithoutRasterizer(t *testing.T) {
	_, err := NewLoader(nil).Decode(context.Background(), []byte(testSVG))

	var wrong *WrongFormatError
	if !errors.As(err, &wrong) || wrong.MediaType != media.SVG {
		t.Errorf("expected *WrongFormatError for svg, got %v", err)
	}
}

func TestLoader_BuiltinRenderer(t *testing.T) {
	img, err := NewLoader(svg.NewRenderer()).Decode(context.Background(), []byte(testSVG))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// A 50 unit square in a 100 unit viewBox rendered 1000 wide.
	w, h := img.Size().Width(), img.Size().Height()
	if w < 498 || w > 502 || h < 498 || h > 502 {
		t.Errorf("dimensions: got %dx%d, want about 500x500", w, h)
	}
}

func TestLoader_Describe(t *testing.T) {
	path := createTestImage(t, 120, 80, color.NRGBA{1, 2, 3, 255})
	defer os.Remove(path)

	info, err := NewLoader(nil).Describe(context.Background(), path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.MediaType != media.PNG {
		t.Errorf("MediaType: got %s, want %s", info.MediaType, media.PNG)
	}
	if info.Width != 120 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", info.Width, info.Height)
	}
	if info.ColorDepth != "8-bit" {
		t.Errorf("ColorDepth: got %s, want 8-bit", info.ColorDepth)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestLoader_DescribeSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte(testSVG), 0644); err != nil {
		t.Fatalf("failed to write svg: %v", err)
	}

	info, err := NewLoader(&fakeRasterizer{img: marginImage(30, 15, 3)}).Describe(context.Background(), path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.MediaType != media.SVG || info.Width != 30 || info.Height != 15 || !info.HasAlpha {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestDescribeModel(t *testing.T) {
	tests := []struct {
		name      string
		model     color.Model
		wantAlpha bool
		wantDepth string
	}{
		{"nrgba", color.NRGBAModel, true, "8-bit"},
		{"rgba64", color.RGBA64Model, true, "16-bit"},
		{"gray", color.GrayModel, false, "8-bit"},
		{"gray16", color.Gray16Model, false, "16-bit"},
		{"opaque palette", color.Palette{color.Black, color.White}, false, "8-bit"},
		{"palette with alpha", color.Palette{color.Black, color.Transparent}, true, "8-bit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alpha, depth := describeModel(tt.model)
			if alpha != tt.wantAlpha || depth != tt.wantDepth {
				t.Errorf("got (%v,%s), want (%v,%s)", alpha, depth, tt.wantAlpha, tt.wantDepth)
			}
		})
	}
}
