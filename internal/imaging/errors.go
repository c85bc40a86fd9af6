package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongFormat matches any *WrongFormatError.
	ErrWrongFormat = errors.New("unsupported image format")

	// ErrInvalidSize matches any *InvalidSizeError.
	ErrInvalidSize = errors.New("invalid size")
)

// WrongFormatError reports content whose sniffed media type cannot be loaded.
type WrongFormatError struct {
	MediaType string
}

func (e *WrongFormatError) Error() string {
	return fmt.Sprintf("unsupported image format %q", e.MediaType)
}

func (e *WrongFormatError) Is(target error) bool { return target == ErrWrongFormat }

// InvalidSizeError reports a zero-area target given to an operation that
// needs a real area.
type InvalidSizeError struct {
	Width  int
	Height int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid size [%d][%d]", e.Width, e.Height)
}

func (e *InvalidSizeError) Is(target error) bool { return target == ErrInvalidSize }
