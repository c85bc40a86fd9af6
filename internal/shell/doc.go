// Package shell runs external programs and captures their results.
//
// It is the process-execution layer used by the SVG converter and the image
// comparator. A run produces a CommandReturn holding the exit code and the
// captured standard output and error. Exit codes are reported, not
// interpreted: deciding whether exit status 1 is a failure belongs to the
// caller (ImageMagick's compare, for example, uses 1 to mean "dissimilar").
//
// A command that cannot be spawned is a distinguished failure, reported as an
// error wrapping ErrNotStarted.
//
// Runs are synchronous. The context passed to Run kills the child process when
// cancelled; nothing in this package sets a timeout on its own.
package shell
