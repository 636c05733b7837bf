// Package prompt owns interactive terminal input: yes/no and free-text
// prompts built on bubbletea, and the status bar used during interactive
// sessions.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrAborted        = errors.New("prompt aborted")
	ErrNonInteractive = errors.New("prompt requires an interactive terminal")
)

type Module interface {
	NewBottomBar() (*BottomBar, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Input(ctx context.Context, message string) (string, error)
	Password(ctx context.Context, message string) (string, error)
}

// Terminal is the Module backed by the process's terminal.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive bool

	mu  sync.Mutex
	bar *BottomBar
}

func NewTerminal(in io.Reader, out io.Writer, interactive bool) *Terminal {
	return &Terminal{in: in, out: out, interactive: interactive}
}

func (t *Terminal) NewBottomBar() (*BottomBar, error) {
	bar := NewBottomBar(t.out)
	t.mu.Lock()
	t.bar = bar
	t.mu.Unlock()
	return bar, nil
}

// Confirm asks a yes/no question. Without a terminal it answers def.
func (t *Terminal) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if !t.interactive {
		return def, nil
	}
	final, err := t.run(ctx, confirmModel{message: message, def: def})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	t.echo(fmt.Sprintf("? %s %s\n", message, yesNo(m.value)))
	return m.value, nil
}

// Input asks for a line of text.
func (t *Terminal) Input(ctx context.Context, message string) (string, error) {
	value, err := t.ask(ctx, message, false)
	if err != nil {
		return "", err
	}
	t.echo(fmt.Sprintf("? %s %s\n", message, value))
	return value, nil
}

// Password asks for a line of text without echoing it.
func (t *Terminal) Password(ctx context.Context, message string) (string, error) {
	value, err := t.ask(ctx, message, true)
	if err != nil {
		return "", err
	}
	t.echo(fmt.Sprintf("? %s %s\n", message, strings.Repeat("*", len(value))))
	return value, nil
}

func (t *Terminal) ask(ctx context.Context, message string, secret bool) (string, error) {
	if !t.interactive {
		return "", ErrNonInteractive
	}
	model := newInputModel(message)
	if secret {
		model.input.EchoMode = textinput.EchoPassword
	}
	final, err := t.run(ctx, model)
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(m.input.Value()), nil
}

func (t *Terminal) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	return program.Run()
}

// echo repeats the answered prompt through the status bar when one is
// active, otherwise to the terminal.
func (t *Terminal) echo(line string) {
	t.mu.Lock()
	bar := t.bar
	t.mu.Unlock()
	if bar != nil {
		if w := bar.Echo(); w != nil {
			_, _ = io.WriteString(w, line)
			return
		}
	}
	_, _ = io.WriteString(t.out, line)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

type confirmModel struct {
	message string
	def     bool
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.value = m.def
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(key.String()) {
		case "y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n":
			m.value = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	hint := "(y/N)"
	if m.def {
		hint = "(Y/n)"
	}
	return fmt.Sprintf("? %s %s ", m.message, hint)
}

type inputModel struct {
	message string
	input   textinput.Model
	done    bool
	aborted bool
}

func newInputModel(message string) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	return inputModel{message: message, input: ti}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return fmt.Sprintf("? %s %s", m.message, m.input.View())
}
