package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/ironsheep/imagekit/internal/media"
	"github.com/ironsheep/imagekit/internal/svg"
)

// Loader opens raster and vector images.
//
// Raster content (PNG, JPEG, GIF, BMP, TIFF, WebP) is decoded in-process with
// EXIF orientation applied. SVG content is rasterized at SVGWidth by the
// Rasterizer, then trimmed of its transparent border.
//
// The media type is sniffed from the content; file extensions are ignored.
type Loader struct {
	Rasterizer svg.Rasterizer
	SVGWidth   int
}

// NewLoader returns a Loader that rasterizes SVG with r at svg.DefaultWidth.
func NewLoader(r svg.Rasterizer) *Loader {
	return &Loader{Rasterizer: r, SVGWidth: svg.DefaultWidth}
}

// defaultLoader uses rsvg-convert.
var defaultLoader = NewLoader(svg.NewConverter())

// Open loads path with the default loader.
func Open(ctx context.Context, path string) (*Image, error) {
	return defaultLoader.Open(ctx, path)
}

// Decode loads data with the default loader.
func Decode(ctx context.Context, data []byte) (*Image, error) {
	return defaultLoader.Decode(ctx, data)
}

// Open loads the image at path.
//
// Errors:
//   - *WrongFormatError when the content is neither a known raster nor SVG
//   - *svg.ConvertError or *svg.InvalidOutputError from SVG rasterization
func (l *Loader) Open(ctx context.Context, path string) (*Image, error) {
	mediaType, err := media.DetectFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loader: open", "path", path, "media_type", mediaType)

	switch {
	case media.IsVector(mediaType):
		return l.rasterize(ctx, path)
	case media.IsRaster(mediaType):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		return decodeRaster(f, mediaType)
	}
	return nil, &WrongFormatError{MediaType: mediaType}
}

// Decode loads an image from an in-memory buffer. SVG data is written to a
// scratch file for the rasterizer and removed afterwards.
func (l *Loader) Decode(ctx context.Context, data []byte) (*Image, error) {
	mediaType := media.Detect(data)
	slog.Debug("Loader: decode", "bytes", len(data), "media_type", mediaType)

	switch {
	case media.IsVector(mediaType):
		tmp, err := os.CreateTemp("", "svg-data-*.svg")
		if err != nil {
			return nil, fmt.Errorf("failed to create scratch file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("failed to write scratch file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("failed to close scratch file: %w", err)
		}
		return l.rasterize(ctx, tmp.Name())
	case media.IsRaster(mediaType):
		return decodeRaster(bytes.NewReader(data), mediaType)
	}
	return nil, &WrongFormatError{MediaType: mediaType}
}

func (l *Loader) rasterize(ctx context.Context, path string) (*Image, error) {
	if l.Rasterizer == nil {
		return nil, &WrongFormatError{MediaType: media.SVG}
	}
	width := l.SVGWidth
	if width <= 0 {
		width = svg.DefaultWidth
	}

	output, err := l.Rasterizer.Rasterize(ctx, path, width)
	if err != nil {
		// The converter leaves output it could not verify on disk.
		var invalid *svg.InvalidOutputError
		if errors.As(err, &invalid) && invalid.Path != "" {
			os.Remove(invalid.Path)
		}
		return nil, err
	}
	defer os.Remove(output)

	img, err := imaging.Open(output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rasterized SVG: %w", err)
	}
	return New(img, FormatPNG).Trim(), nil
}

func decodeRaster(r io.Reader, mediaType string) (*Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return New(img, formatForMediaType(mediaType)), nil
}

// Info describes an image file without transforming it.
type Info struct {
	// MediaType is the sniffed content type, for example "image/png".
	MediaType string `json:"media_type"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Describe reports the media type and dimensions of the file at path.
//
// Raster files are only read up to their header. SVG files are rasterized,
// so the reported size is the trimmed raster at SVGWidth.
func (l *Loader) Describe(ctx context.Context, path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	mediaType, err := media.DetectFile(path)
	if err != nil {
		return nil, err
	}

	info := &Info{MediaType: mediaType, FileSizeBytes: stat.Size()}
	switch {
	case media.IsVector(mediaType):
		img, err := l.rasterize(ctx, path)
		if err != nil {
			return nil, err
		}
		size := img.Size()
		info.Width, info.Height = size.Width(), size.Height()
		info.ColorDepth, info.HasAlpha = "8-bit", true
	case media.IsRaster(mediaType):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image header: %w", err)
		}
		info.Width, info.Height = cfg.Width, cfg.Height
		info.HasAlpha, info.ColorDepth = describeModel(cfg.ColorModel)
	default:
		return nil, &WrongFormatError{MediaType: mediaType}
	}
	return info, nil
}

func describeModel(m color.Model) (hasAlpha bool, depth string) {
	switch m {
	case color.RGBAModel, color.NRGBAModel, color.AlphaModel:
		return true, "8-bit"
	case color.RGBA64Model, color.NRGBA64Model, color.Alpha16Model:
		return true, "16-bit"
	case color.Gray16Model:
		return false, "16-bit"
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true, "8-bit"
			}
		}
	}
	return false, "8-bit"
}
