package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/imagekit/internal/geometry"
	"github.com/ironsheep/imagekit/internal/imaging"
	"github.com/ironsheep/imagekit/internal/shell"
	"github.com/ironsheep/imagekit/internal/svg"
)

const (
	// DefaultExecutable is ImageMagick's compare tool.
	DefaultExecutable = "compare"

	// DefaultDiscard is the ImageMagick pseudo file that drops the
	// difference image.
	DefaultDiscard = "null:"

	// DefaultThumbnailSize is the square side both inputs are reduced to
	// before Compare runs the tool.
	DefaultThumbnailSize = 200

	tooDissimilar = "images too dissimilar"
)

// metricPattern matches the normalized value compare prints in parentheses,
// as in "1234.5 (0.0188)".
var metricPattern = regexp.MustCompile(`\(([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\)`)

// Comparator computes a normalized RMSE dissimilarity between two images by
// running ImageMagick's compare. Scores run from 0 (identical) to 1.
type Comparator struct {
	Executable string
	Discard    string

	// ThumbnailSize is the side of the square thumbnails used by Compare.
	ThumbnailSize int

	// DissimilarityThreshold, when positive, is passed as
	// -dissimilarity-threshold so the tool scores very different images
	// instead of refusing them.
	DissimilarityThreshold float64

	// Loader opens the inputs of Compare.
	Loader *imaging.Loader

	Runner shell.Runner
}

// New returns a Comparator with the default tool, discard target and
// thumbnail size, loading SVG through rsvg-convert at 1000 pixels.
func New() *Comparator {
	return &Comparator{
		Executable:    DefaultExecutable,
		Discard:       DefaultDiscard,
		ThumbnailSize: DefaultThumbnailSize,
		Loader:        imaging.NewLoader(svg.NewConverter()),
		Runner:        shell.DefaultRunner,
	}
}

// Exists reports whether `<exe> -version` starts and exits 0.
func (c *Comparator) Exists(ctx context.Context) bool {
	result, err := c.runner().Run(ctx, []string{c.Executable, "-version"})
	if err != nil {
		slog.Debug("Comparator: executable not available", "executable", c.Executable, "error", err)
		return false
	}
	return result.ExitCode() == 0
}

// Command returns the argv comparing file1 and file2.
func (c *Comparator) Command(file1, file2 string) []string {
	argv := []string{c.Executable}
	if c.DissimilarityThreshold > 0 {
		argv = append(argv, "-dissimilarity-threshold",
			strconv.FormatFloat(c.DissimilarityThreshold, 'g', -1, 64))
	}
	return append(argv, "-metric", "RMSE", file1, file2, c.Discard)
}

// Run compares two raster files as they are and returns the normalized
// RMSE.
//
// Exit codes 0 (similar) and 1 (dissimilar) are both successes. When the
// tool reports the images as too dissimilar to measure, the score is 1.
func (c *Comparator) Run(ctx context.Context, file1, file2 string) (float64, error) {
	argv := c.Command(file1, file2)
	slog.Debug("Comparator: start", "command", strings.Join(argv, " "))

	result, err := c.runner().Run(ctx, argv)
	if err != nil {
		if errors.Is(err, shell.ErrNotStarted) {
			return 0, &CommandError{ExitCode: -1, Output: err.Error()}
		}
		return 0, fmt.Errorf("failed to run %s: %w", c.Executable, err)
	}

	output := result.StdErrOrOut()
	if strings.Contains(result.Stderr(), tooDissimilar) || strings.Contains(result.Stdout(), tooDissimilar) {
		slog.Debug("Comparator: too dissimilar", "exit_code", result.ExitCode())
		return 1.0, nil
	}
	if code := result.ExitCode(); code != 0 && code != 1 {
		return 0, &CommandError{ExitCode: code, Output: output}
	}

	for _, stream := range []string{result.Stderr(), result.Stdout()} {
		if value, ok := parseMetric(stream); ok {
			slog.Debug("Comparator: complete", "score", value)
			return value, nil
		}
	}
	return 0, &CommandError{ExitCode: result.ExitCode(), Output: output}
}

// Compare reduces both images to small super thumbnails and compares
// those. This trades accuracy for speed and lets images of different size
// or format be compared.
func (c *Comparator) Compare(ctx context.Context, file1, file2 string) (float64, error) {
	thumb1, err := c.thumbnail(ctx, file1)
	if err != nil {
		return 0, err
	}
	defer os.Remove(thumb1)

	thumb2, err := c.thumbnail(ctx, file2)
	if err != nil {
		return 0, err
	}
	defer os.Remove(thumb2)

	return c.Run(ctx, thumb1, thumb2)
}

// thumbnail writes the comparison thumbnail of path to a scratch JPEG.
func (c *Comparator) thumbnail(ctx context.Context, path string) (string, error) {
	loader := c.Loader
	if loader == nil {
		loader = imaging.NewLoader(svg.NewConverter())
	}
	size := c.ThumbnailSize
	if size <= 0 {
		size = DefaultThumbnailSize
	}

	img, err := loader.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := img.Contain(geometry.NewSize(size, size), nil); err != nil {
		return "", err
	}
	img.MakeSuperThumbnail(size, size)

	tmp, err := os.CreateTemp("", "compare-*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	tmp.Close()

	if _, err := img.WriteFile(tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (c *Comparator) runner() shell.Runner {
	if c.Runner == nil {
		return shell.DefaultRunner
	}
	return c.Runner
}

func parseMetric(output string) (float64, bool) {
	m := metricPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
