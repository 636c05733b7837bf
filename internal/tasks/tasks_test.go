package tasks

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLine struct {
	mu      sync.Mutex
	updates []string
}

func (r *recordingLine) Update(text string) {
	r.mu.Lock()
	r.updates = append(r.updates, text)
	r.mu.Unlock()
}

func (r *recordingLine) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.updates...)
}

func TestChainWritesResultLines(t *testing.T) {
	var out bytes.Buffer
	chain := NewChain(func() io.Writer { return &out }, false)

	chain.Next("Copying files")
	chain.Next("Installing dependencies")
	chain.Fail()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "✔ Copying files - done in "))
	assert.True(t, strings.HasPrefix(lines[1], "✖ Installing dependencies - failed in "))
	assert.False(t, chain.Running())
}

func TestTaskSucceedTwice(t *testing.T) {
	var out bytes.Buffer
	chain := NewChain(func() io.Writer { return &out }, false)

	task := chain.Next("Step")
	task.Msg("Renamed step")
	task.Succeed()
	task.Succeed()
	chain.End()

	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "Renamed step")
}

func TestCleanupStopsSpinnerAndIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	line := &recordingLine{}
	chain := NewChain(func() io.Writer { return &out }, true)
	chain.interval = time.Millisecond
	chain.SetStatusLine(line)

	chain.Next("Serving")
	require.Eventually(t, func() bool { return len(line.snapshot()) > 0 }, time.Second, time.Millisecond)

	chain.Cleanup()
	chain.Cleanup()

	updates := line.snapshot()
	assert.Equal(t, "", updates[len(updates)-1], "cleanup must clear the status line")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, len(updates), len(line.snapshot()), "spinner kept running after cleanup")
	assert.Empty(t, out.String())
	assert.False(t, chain.Running())
}

func TestCleanupWithoutTasks(t *testing.T) {
	chain := NewChain(nil, true)
	assert.NotPanics(t, chain.Cleanup)
}
