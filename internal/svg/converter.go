package svg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/imagekit/internal/media"
	"github.com/ironsheep/imagekit/internal/shell"
)

const (
	// DefaultExecutable is the librsvg command line tool.
	// On Debian/Ubuntu it ships in the librsvg2-bin package.
	DefaultExecutable = "rsvg-convert"

	// DefaultWidth is the raster width requested when none is configured.
	// SVG has no intrinsic pixel size; converters guess, and the guess is
	// often too small, so a generous width is rendered and scaled down later.
	DefaultWidth = 1000
)

// Rasterizer turns an SVG file into a PNG file rendered at a given width.
// The returned path is a scratch file owned by the caller.
type Rasterizer interface {
	Rasterize(ctx context.Context, input string, width int) (string, error)
}

// Converter shells out to rsvg-convert.
type Converter struct {
	executable string
	width      int
	runner     shell.Runner
}

// NewConverter returns a Converter using rsvg-convert at DefaultWidth.
func NewConverter() *Converter {
	return &Converter{
		executable: DefaultExecutable,
		width:      DefaultWidth,
		runner:     shell.DefaultRunner,
	}
}

// SetExecutable sets the converter executable name or path.
func (c *Converter) SetExecutable(executable string) *Converter {
	c.executable = executable
	return c
}

// SetWidth sets the target raster width. Non-positive widths are ignored.
func (c *Converter) SetWidth(width int) *Converter {
	if width > 0 {
		c.width = width
	}
	return c
}

// SetRunner replaces the process runner, mainly for tests.
func (c *Converter) SetRunner(runner shell.Runner) *Converter {
	c.runner = runner
	return c
}

// Executable returns the configured executable.
func (c *Converter) Executable() string { return c.executable }

// Width returns the configured target width.
func (c *Converter) Width() int { return c.width }

// Exists reports whether the executable can be run: `<exe> --version` must
// start and exit 0.
func (c *Converter) Exists(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, []string{c.executable, "--version"})
	if err != nil {
		slog.Debug("Converter: executable not available", "executable", c.executable, "error", err)
		return false
	}
	return result.ExitCode() == 0
}

// Command returns the argv used to convert input into output.
func (c *Converter) Command(input, output string) []string {
	return []string{
		c.executable,
		input,
		"-f", "png",
		"--keep-aspect-ratio",
		"-w", strconv.Itoa(c.width),
		"-o", output,
	}
}

// CommandString returns Command joined with spaces, for logs and debugging.
func (c *Converter) CommandString(input, output string) string {
	return strings.Join(c.Command(input, output), " ")
}

// Convert renders input to a new scratch PNG file and returns its path.
//
// The input is first copied to a scratch file so the converter never sees
// the caller's path. The returned file must be removed by the caller.
//
// Errors:
//   - *ConvertError when the converter cannot be started or exits non-zero
//   - *InvalidOutputError when it exits 0 but the output is not a PNG
func (c *Converter) Convert(ctx context.Context, input string) (string, error) {
	scratchIn, err := copyToScratch(input, "svg-in-*.svg")
	if err != nil {
		return "", err
	}
	defer os.Remove(scratchIn)

	out, err := os.CreateTemp("", "svg-out-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	output := out.Name()
	out.Close()

	argv := c.Command(scratchIn, output)
	slog.Debug("Converter: start", "command", strings.Join(argv, " "))

	result, err := c.runner.Run(ctx, argv)
	if err != nil {
		os.Remove(output)
		if errors.Is(err, shell.ErrNotStarted) {
			return "", &ConvertError{Output: err.Error()}
		}
		return "", fmt.Errorf("failed to run %s: %w", c.executable, err)
	}
	if result.ExitCode() != 0 {
		os.Remove(output)
		slog.Debug("Converter: non-zero exit", "exit_code", result.ExitCode())
		return "", &ConvertError{Output: result.StdErrOrOut()}
	}

	mediaType, err := media.DetectFile(output)
	if err != nil {
		os.Remove(output)
		return "", err
	}
	if mediaType != media.PNG {
		return "", &InvalidOutputError{Path: output, MediaType: mediaType}
	}

	slog.Debug("Converter: complete", "output", output)
	return output, nil
}

// Rasterize converts input at the given width without changing the
// converter's configured width. A non-positive width uses the configured one.
func (c *Converter) Rasterize(ctx context.Context, input string, width int) (string, error) {
	conv := *c
	conv.SetWidth(width)
	return conv.Convert(ctx, input)
}

// copyToScratch copies src into a new temp file and returns its path.
func copyToScratch(src, pattern string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}
	return tmp.Name(), nil
}
