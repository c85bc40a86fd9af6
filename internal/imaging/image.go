package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imagekit/internal/geometry"
	"github.com/ironsheep/imagekit/internal/media"
)

// Format is the encoding used when an Image is written.
type Format int

// Supported output formats. FormatUnknown means "decide when writing".
const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatGIF
	FormatTIFF
	FormatBMP
)

// DefaultJPEGQuality matches the encoder default of the imaging library.
const DefaultJPEGQuality = 95

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatJPEG:    "jpeg",
	FormatPNG:     "png",
	FormatGIF:     "gif",
	FormatTIFF:    "tiff",
	FormatBMP:     "bmp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// MediaType returns the MIME type written for f.
func (f Format) MediaType() string {
	switch f {
	case FormatJPEG:
		return media.JPEG
	case FormatGIF:
		return media.GIF
	case FormatTIFF:
		return media.TIFF
	case FormatBMP:
		return media.BMP
	}
	return media.PNG
}

// ParseFormat maps a name such as "jpg" or "png" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported output format %q", name)
}

// FormatFromFilename infers the output format from the path extension.
// Paths without a known extension (for example /dev/stdout) yield
// FormatUnknown.
func FormatFromFilename(path string) Format {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return FormatUnknown
	}
	return fromLibraryFormat(f)
}

// formatForMediaType picks the output format that preserves a source type.
// Types without an encoder (WebP, SVG) are written as PNG.
func formatForMediaType(mediaType string) Format {
	switch mediaType {
	case media.JPEG:
		return FormatJPEG
	case media.GIF:
		return FormatGIF
	case media.TIFF:
		return FormatTIFF
	case media.BMP:
		return FormatBMP
	}
	return FormatPNG
}

func fromLibraryFormat(f imaging.Format) Format {
	switch f {
	case imaging.JPEG:
		return FormatJPEG
	case imaging.GIF:
		return FormatGIF
	case imaging.TIFF:
		return FormatTIFF
	case imaging.BMP:
		return FormatBMP
	}
	return FormatPNG
}

func (f Format) library() imaging.Format {
	switch f {
	case FormatJPEG:
		return imaging.JPEG
	case FormatGIF:
		return imaging.GIF
	case FormatTIFF:
		return imaging.TIFF
	case FormatBMP:
		return imaging.BMP
	}
	return imaging.PNG
}

// Image is a decoded raster image plus the settings used to write it.
//
// Transformations mutate the receiver and return it so calls can be chained.
// An Image is not safe for concurrent use.
type Image struct {
	img         image.Image
	format      Format
	quality     int
	compression png.CompressionLevel
	stripped    bool
	interlace   bool
}

// New wraps img. The format decides how WriteTo encodes it; FormatUnknown
// defers the choice to WriteFile's extension or PNG.
func New(img image.Image, format Format) *Image {
	return &Image{
		img:         img,
		format:      format,
		quality:     DefaultJPEGQuality,
		compression: png.DefaultCompression,
	}
}

// Image returns the current pixels.
func (i *Image) Image() image.Image { return i.img }

// Size returns the current dimensions.
func (i *Image) Size() geometry.Size { return geometry.FromImage(i.img) }

// Format returns the output format.
func (i *Image) Format() Format { return i.format }

// Quality returns the JPEG quality used when writing JPEG.
func (i *Image) Quality() int { return i.quality }

// Stripped reports whether metadata stripping was requested. The encoders
// never write EXIF or ICC data, so written files carry no metadata either way.
func (i *Image) Stripped() bool { return i.stripped }

// Interlaced reports whether progressive output was requested.
func (i *Image) Interlaced() bool { return i.interlace }

// SetFormat sets the output format.
func (i *Image) SetFormat(f Format) *Image {
	i.format = f
	return i
}

// SetQuality sets the JPEG quality, clamped to 1..100.
func (i *Image) SetQuality(q int) *Image {
	switch {
	case q < 1:
		q = 1
	case q > 100:
		q = 100
	}
	i.quality = q
	return i
}

// Strip marks the image as stripped of metadata.
func (i *Image) Strip() *Image {
	i.stripped = true
	return i
}

// WriteTo encodes the image with its current format. An unknown format is
// written as PNG.
func (i *Image) WriteTo(w io.Writer) (int64, error) {
	return i.writeAs(w, i.format)
}

func (i *Image) writeAs(w io.Writer, format Format) (int64, error) {
	if format == FormatUnknown {
		format = FormatPNG
	}

	var buf bytes.Buffer
	err := imaging.Encode(&buf, i.img, format.library(),
		imaging.JPEGQuality(i.quality),
		imaging.PNGCompressionLevel(i.compression))
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if i.interlace && format == FormatJPEG {
		slog.Debug("Image: progressive JPEG not available, writing baseline")
	}
	return buf.WriteTo(w)
}

// WriteFile writes the image to path and returns the path written.
//
// The file is opened with os.Create and closed explicitly, so any writable
// path works, including /dev/stdout or a FIFO. A recognised extension picks
// the encoding; otherwise the image format is used, falling back to PNG.
func (i *Image) WriteFile(path string) (string, error) {
	format := FormatFromFilename(path)
	if format == FormatUnknown {
		format = i.format
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := i.writeAs(f, format)
	if err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Debug("Image: written", "path", path, "format", format.String(), "bytes", n)
	return path, nil
}
