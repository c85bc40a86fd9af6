package svg

import (
	"errors"
	"fmt"
)

var (
	// ErrConvert matches every *ConvertError.
	ErrConvert = errors.New("svg conversion failed")

	// ErrInvalidOutput matches every *InvalidOutputError.
	ErrInvalidOutput = errors.New("svg conversion produced an invalid image")
)

// ConvertError reports that the converter could not be run or exited with a
// non-zero status. Output carries the captured stderr (or stdout when stderr
// was empty).
type ConvertError struct {
	Output string
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("svg conversion failed: %s", e.Output)
}

// Is makes errors.Is(err, ErrConvert) true.
func (e *ConvertError) Is(target error) bool { return target == ErrConvert }

// InvalidOutputError reports that the converter exited 0 but the file it left
// behind is not a PNG image.
type InvalidOutputError struct {
	Path      string
	MediaType string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("svg conversion output %s is %s, not a png image", e.Path, e.MediaType)
}

// Is makes errors.Is(err, ErrInvalidOutput) true.
func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidOutput }
