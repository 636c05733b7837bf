package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Logger is the subset of ui.Logger the shell needs.
type Logger interface {
	Msg(format string, args ...any)
	Green(text string) string
	Stream() io.Writer
}

type RunOptions struct {
	Cwd           string
	Env           map[string]string
	ShowExecution bool
	// Stream overrides where the child's stdout and stderr go. Defaults to the
	// logger's current stream.
	Stream io.Writer
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type Shell struct {
	log Logger
}

func New(log Logger) *Shell {
	return &Shell{log: log}
}

// FormatCommandLine joins argv for display, wrapping arguments that contain a
// space in double quotes.
func FormatCommandLine(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		if strings.Contains(arg, " ") {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

func (s *Shell) Run(ctx context.Context, name string, args []string, opts RunOptions) error {
	display := FormatCommandLine(append([]string{name}, args...))
	if opts.ShowExecution && s.log != nil {
		s.log.Msg("> %s", s.log.Green(display))
	}

	stream := opts.Stream
	if stream == nil && s.log != nil {
		stream = s.log.Stream()
	}
	if stream == nil {
		stream = io.Discard
	}

	cmd := s.command(ctx, name, args, opts)
	cmd.Stdout = stream
	cmd.Stderr = stream
	return wrapExit(display, cmd.Run())
}

// Output runs the command and returns its trimmed standard output.
func (s *Shell) Output(ctx context.Context, name string, args []string, opts RunOptions) (string, error) {
	display := FormatCommandLine(append([]string{name}, args...))
	cmd := s.command(ctx, name, args, opts)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := wrapExit(display, cmd.Run()); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (s *Shell) command(ctx context.Context, name string, args []string, opts RunOptions) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Cwd
	if len(opts.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), opts.Env)
	}
	return cmd
}

func wrapExit(display string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: display, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("run %s: %w", display, err)
}

func mergeEnv(base []string, extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, override := extra[key]; override {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range keys {
		out = append(out, key+"="+extra[key])
	}
	return out
}
