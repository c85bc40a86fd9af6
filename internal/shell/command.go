package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
)

// ErrNotStarted is returned when a command could not be spawned at all
// (missing executable, permission denied, bad working directory).
// Commands that start and then exit non-zero are not errors at this layer;
// their exit code is reported in CommandReturn.
var ErrNotStarted = errors.New("command could not be started")

// CommandReturn holds the outcome of a finished command.
type CommandReturn struct {
	exitCode int
	stdout   string
	stderr   string
}

// NewCommandReturn builds a CommandReturn. It is mostly useful for fakes.
func NewCommandReturn(exitCode int, stdout, stderr string) *CommandReturn {
	return &CommandReturn{exitCode: exitCode, stdout: stdout, stderr: stderr}
}

// ExitCode returns the process exit code.
func (r *CommandReturn) ExitCode() int { return r.exitCode }

// Stdout returns the captured standard output.
func (r *CommandReturn) Stdout() string { return r.stdout }

// Stderr returns the captured standard error.
func (r *CommandReturn) Stderr() string { return r.stderr }

// StdErrOrOut returns stderr when it is not empty, stdout otherwise.
// External tools disagree about which stream carries diagnostics.
func (r *CommandReturn) StdErrOrOut() string {
	if r.stderr == "" {
		return r.stdout
	}
	return r.stderr
}

type runConfig struct {
	dir string
	env map[string]string
}

// Option configures a single Run call.
type Option func(*runConfig)

// WithDir sets the working directory of the command.
func WithDir(dir string) Option {
	return func(c *runConfig) {
		c.dir = dir
	}
}

// WithEnv adds environment variables on top of the current process environment.
func WithEnv(env map[string]string) Option {
	return func(c *runConfig) {
		c.env = env
	}
}

// Runner executes external commands. Converters and comparators depend on
// this interface so tests can substitute canned results.
type Runner interface {
	Run(ctx context.Context, argv []string, opts ...Option) (*CommandReturn, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, argv []string, opts ...Option) (*CommandReturn, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, argv []string, opts ...Option) (*CommandReturn, error) {
	return f(ctx, argv, opts...)
}

// DefaultRunner runs commands with os/exec.
var DefaultRunner Runner = RunnerFunc(Run)

// Run executes argv[0] with the remaining arguments and waits for it to exit.
//
// Stdout and stderr are drained concurrently by os/exec into separate buffers,
// so a chatty process cannot block on a full pipe. Stdin is empty.
//
// The returned error is non-nil only when the command could not be started
// (wrapping ErrNotStarted) or argv is empty. A non-zero exit status is
// reported through CommandReturn.ExitCode, never interpreted here.
func Run(ctx context.Context, argv []string, opts ...Option) (*CommandReturn, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command line", ErrNotStarted)
	}

	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cfg.dir
	if len(cfg.env) > 0 {
		cmd.Env = append(os.Environ(), envList(cfg.env)...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("shell: running command", "argv", argv, "dir", cfg.dir)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotStarted, argv[0], err)
	}

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to wait for %s: %w", argv[0], err)
		}
		exitCode = exitErr.ExitCode()
	}

	slog.Debug("shell: command finished",
		"command", argv[0],
		"exit_code", exitCode,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len())

	return &CommandReturn{
		exitCode: exitCode,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
	}, nil
}

// envList turns a map into KEY=VALUE pairs in a stable order.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}
