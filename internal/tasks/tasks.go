// Package tasks renders progress for a sequence of steps. Each running step
// animates a spinner until it succeeds, fails, or the chain is cleaned up.
package tasks

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StatusLine is a single redrawable line, such as a prompt.BottomBar.
type StatusLine interface {
	Update(text string)
}

type Task struct {
	chain *Chain
	mu    sync.Mutex
	msg   string
	start time.Time
	done  chan struct{}
	wg    sync.WaitGroup
	ended bool
}

// Chain runs one task at a time: Next ends the current task successfully
// before starting the new one.
type Chain struct {
	mu       sync.Mutex
	out      func() io.Writer
	status   StatusLine
	frames   []string
	interval time.Duration
	animate  bool
	current  *Task
}

// NewChain writes finished task lines to the writer returned by out, which
// is re-read on every write so it follows the logger's current stream.
// animate turns the spinner on; without it only the final lines are written.
func NewChain(out func() io.Writer, animate bool) *Chain {
	return &Chain{
		out:      out,
		frames:   spinner.Line.Frames,
		interval: spinner.Line.FPS,
		animate:  animate,
	}
}

// SetStatusLine routes spinner frames to line instead of redrawing the
// output stream in place. A nil line restores in-place rendering.
func (c *Chain) SetStatusLine(line StatusLine) {
	c.mu.Lock()
	c.status = line
	c.mu.Unlock()
}

func (c *Chain) Next(msg string) *Task {
	c.mu.Lock()
	prev := c.current
	c.mu.Unlock()
	if prev != nil {
		prev.Succeed()
	}

	t := &Task{chain: c, msg: msg, start: time.Now(), done: make(chan struct{})}
	c.mu.Lock()
	c.current = t
	animate := c.animate
	c.mu.Unlock()

	if animate {
		t.wg.Add(1)
		go t.spin()
	}
	return t
}

// End finishes the current task successfully.
func (c *Chain) End() {
	if t := c.take(); t != nil {
		t.finish("✔", "done")
	}
}

// Fail marks the current task failed.
func (c *Chain) Fail() {
	if t := c.take(); t != nil {
		t.finish("✖", "failed")
	}
}

// Cleanup stops any running spinner without printing a result line. Safe to
// call repeatedly.
func (c *Chain) Cleanup() {
	t := c.take()
	if t == nil {
		return
	}
	t.stop()
	c.clearStatus()
}

// Running reports whether a task is in progress.
func (c *Chain) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *Chain) take() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.current
	c.current = nil
	return t
}

func (c *Chain) writer() io.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil {
		return io.Discard
	}
	return c.out()
}

func (c *Chain) clearStatus() {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()
	if status != nil {
		status.Update("")
	}
}

// Msg changes the task's label.
func (t *Task) Msg(msg string) {
	t.mu.Lock()
	t.msg = msg
	t.mu.Unlock()
}

func (t *Task) Succeed() {
	if t.detach() {
		t.finish("✔", "done")
	}
}

func (t *Task) Fail() {
	if t.detach() {
		t.finish("✖", "failed")
	}
}

// detach removes t from its chain if it is still the current task.
func (t *Task) detach() bool {
	c := t.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != t {
		return false
	}
	c.current = nil
	return true
}

func (t *Task) finish(mark, result string) {
	if !t.stop() {
		return
	}
	t.chain.clearStatus()
	t.mu.Lock()
	line := fmt.Sprintf("%s %s - %s in %s", mark, t.msg, result, time.Since(t.start).Round(time.Millisecond))
	t.mu.Unlock()
	if t.chain.statusless() {
		line = "\r\033[2K" + line
	}
	fmt.Fprintln(t.chain.writer(), line)
}

// stop halts the spinner goroutine. It returns false if the task was
// already stopped.
func (t *Task) stop() bool {
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return false
	}
	t.ended = true
	close(t.done)
	t.mu.Unlock()
	t.wg.Wait()
	return true
}

func (c *Chain) statusless() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animate && c.status == nil
}

func (t *Task) spin() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.chain.interval)
	defer ticker.Stop()
	index := 0

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			frame := t.chain.frames[index%len(t.chain.frames)]
			text := fmt.Sprintf("%s %s %ds", frame, t.msg, int(time.Since(t.start).Seconds()))
			t.mu.Unlock()

			t.chain.mu.Lock()
			status := t.chain.status
			t.chain.mu.Unlock()
			if status != nil {
				status.Update(text)
			} else {
				fmt.Fprint(t.chain.writer(), "\r\033[2K"+text)
			}
			index++
		}
	}
}
