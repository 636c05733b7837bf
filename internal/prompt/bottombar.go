package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

var ErrNoOutputHandle = errors.New("status bar has no echo output handle")

// echoOutput is where the bar repeats answered prompts. Muting it keeps a
// second copy of each prompt from being printed above the bar.
type echoOutput struct {
	mu    sync.Mutex
	w     io.Writer
	muted bool
}

func (o *echoOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.muted {
		return len(p), nil
	}
	return o.w.Write(p)
}

func (o *echoOutput) Mute() {
	o.mu.Lock()
	o.muted = true
	o.mu.Unlock()
}

// BottomBar keeps one status line pinned under everything written through
// its Log sink.
type BottomBar struct {
	mu     sync.Mutex
	out    io.Writer
	term   *termenv.Output
	output *echoOutput
	line   string
	closed bool
	// pending holds a trailing partial line written while the status line
	// is drawn.
	pending []byte
}

func NewBottomBar(out io.Writer) *BottomBar {
	b := &BottomBar{
		out:  out,
		term: termenv.NewOutput(out),
	}
	b.output = &echoOutput{w: &barWriter{bar: b}}
	return b
}

type barWriter struct {
	bar *BottomBar
}

func (w *barWriter) Write(p []byte) (int, error) {
	return w.bar.writeAbove(p)
}

// Log returns the writer that prints above the status line.
func (b *BottomBar) Log() io.Writer {
	return &barWriter{bar: b}
}

// Echo returns the echo handle, or nil once the bar is closed.
func (b *BottomBar) Echo() io.Writer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.output == nil {
		return nil
	}
	return b.output
}

// Update replaces the status line.
func (b *BottomBar) Update(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.clearLine()
	b.line = text
	b.drawLine()
}

// Close erases the status line and drops the echo handle. Closing twice is a
// no-op.
func (b *BottomBar) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.clearLine()
	err := b.flushPending()
	b.closed = true
	b.line = ""
	b.output = nil
	return err
}

func (b *BottomBar) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// writeAbove prints p above the status line. While a line is drawn only
// complete lines are printed; the rest waits for its newline so the redraw
// never lands in the middle of child output.
func (b *BottomBar) writeAbove(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.line == "" {
		if err := b.flushPending(); err != nil {
			return 0, err
		}
		return b.out.Write(p)
	}

	b.pending = append(b.pending, p...)
	i := bytes.LastIndexByte(b.pending, '\n')
	if i < 0 {
		return len(p), nil
	}
	b.clearLine()
	_, err := b.out.Write(b.pending[:i+1])
	b.pending = append(b.pending[:0], b.pending[i+1:]...)
	b.drawLine()
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *BottomBar) flushPending() error {
	if len(b.pending) == 0 {
		return nil
	}
	_, err := b.out.Write(b.pending)
	b.pending = b.pending[:0]
	return err
}

func (b *BottomBar) clearLine() {
	if b.line == "" {
		return
	}
	b.term.ClearLine()
	fmt.Fprint(b.out, "\r")
}

func (b *BottomBar) drawLine() {
	if b.line == "" {
		return
	}
	fmt.Fprint(b.out, b.line)
}

// MuteEcho silences the bar's echo handle. It fails with ErrNoOutputHandle
// when the bar is nil or already closed; callers treat that as a warning.
func MuteEcho(bar *BottomBar) error {
	if bar == nil {
		return ErrNoOutputHandle
	}
	bar.mu.Lock()
	output := bar.output
	bar.mu.Unlock()
	if output == nil {
		return ErrNoOutputHandle
	}
	output.Mute()
	return nil
}
