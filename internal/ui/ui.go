package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Logger writes human-facing output to a swappable stream. The stream starts
// as the standard output writer and may be pointed at a status bar sink for
// the duration of an interactive session.
type Logger struct {
	mu           sync.Mutex
	stream       io.Writer
	stdout       io.Writer
	err          io.Writer
	output       *termenv.Output
	errOutput    *termenv.Output
	debug        zerolog.Logger
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *Logger {
	output := termenv.NewOutput(out)
	errOutput := termenv.NewOutput(err)

	return &Logger{
		stream:       out,
		stdout:       out,
		err:          err,
		output:       output,
		errOutput:    errOutput,
		debug:        zerolog.New(err).With().Timestamp().Logger(),
		ColorEnabled: shouldEnableColor(output, mode, disableColor),
	}
}

func shouldEnableColor(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

// Stream returns the writer that Msg, Infof, Okf and Warnf currently target.
func (l *Logger) Stream() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stream
}

// SetStream retargets the logger. A nil writer restores standard output.
func (l *Logger) SetStream(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = l.stdout
	}
	l.stream = w
}

// Stdout returns the writer the logger was constructed with.
func (l *Logger) Stdout() io.Writer {
	return l.stdout
}

// ErrWriter returns the error stream.
func (l *Logger) ErrWriter() io.Writer {
	return l.err
}

// SetDebugLogger replaces the zerolog logger used by Debugf.
func (l *Logger) SetDebugLogger(logger zerolog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = logger
}

// Write lets the logger itself be handed to code expecting an io.Writer; the
// bytes go to the current stream.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stream.Write(p)
}

func (l *Logger) Msg(format string, args ...any) {
	l.writeLine(l.format(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.writeLine(l.colorize(l.output, l.format(format, args...), "4"))
}

func (l *Logger) Okf(format string, args ...any) {
	l.writeLine(l.colorize(l.output, l.format(format, args...), "2"))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.writeLine(l.colorize(l.output, l.format(format, args...), "3"))
}

func (l *Logger) Errorf(format string, args ...any) {
	msg := l.colorize(l.errOutput, l.format(format, args...), "1")
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.err, msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.mu.Lock()
	logger := l.debug
	l.mu.Unlock()
	logger.Debug().Msgf(format, args...)
}

func (l *Logger) Green(text string) string {
	return l.colorize(l.output, text, "2")
}

func (l *Logger) Bold(text string) string {
	if !l.ColorEnabled {
		return text
	}
	return l.output.String(text).Bold().String()
}

func (l *Logger) format(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

func (l *Logger) colorize(output *termenv.Output, text string, color string) string {
	if !l.ColorEnabled || output == nil {
		return text
	}
	return output.String(text).Foreground(output.Color(color)).String()
}

func (l *Logger) writeLine(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.stream, msg)
}

// PrettyPath shortens p for display: paths under the working directory become
// ./relative, paths under the home directory start with ~.
func PrettyPath(p string) string {
	p = filepath.Clean(p)
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			if rel == "." {
				return "."
			}
			return "." + string(filepath.Separator) + rel
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if p == home {
			return "~"
		}
		if strings.HasPrefix(p, home+string(filepath.Separator)) {
			return "~" + strings.TrimPrefix(p, home)
		}
	}
	return p
}

func NormalizeColorMode(value string) ColorMode {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case string(ColorAlways):
		return ColorAlways
	case string(ColorNever):
		return ColorNever
	default:
		return ColorAuto
	}
}

// IsTTY reports whether out looks like a color-capable terminal.
func IsTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
