package compare

import (
	"errors"
	"fmt"
)

// ErrCommand matches any *CommandError.
var ErrCommand = errors.New("compare command failed")

// CommandError reports a comparison that produced no usable metric: the tool
// could not start, exited with a code other than 0 or 1, or printed nothing
// that parses as a score. Output holds what the tool printed.
type CommandError struct {
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("compare command failed (exit %d): %s", e.ExitCode, e.Output)
}

func (e *CommandError) Is(target error) bool { return target == ErrCommand }
