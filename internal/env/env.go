// Package env defines Environment, the per-invocation bundle of services
// handed to every command and plugin.
//
// The lifecycle is linear: New, then Open at most once, any number of
// RunCommand calls, then Close. Open and Close are not safe to call
// concurrently with each other.
package env

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/events"
	"github.com/MrJJimenez/ionctl/internal/hooks"
	"github.com/MrJJimenez/ionctl/internal/network"
	"github.com/MrJJimenez/ionctl/internal/plugin"
	"github.com/MrJJimenez/ionctl/internal/project"
	"github.com/MrJJimenez/ionctl/internal/prompt"
	"github.com/MrJJimenez/ionctl/internal/session"
	"github.com/MrJJimenez/ionctl/internal/shell"
	"github.com/MrJJimenez/ionctl/internal/tasks"
	"github.com/MrJJimenez/ionctl/internal/telemetry"
	"github.com/MrJJimenez/ionctl/internal/ui"
)

// Metadata describes a namespace.
type Metadata struct {
	Name        string
	Description string
}

// Namespace resolves argv to a command and runs it.
type Namespace interface {
	Metadata() Metadata
	RunCommand(ctx context.Context, e *Environment, argv []string, envVars map[string]string) error
}

// InfoItem is one line of `info` output. Plugins contribute items through
// the hooks.InfoGather hook.
type InfoItem struct {
	Group string `json:"group"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Flags are the global command-line switches that shape output and prompting.
type Flags struct {
	Interactive bool
	Confirm     bool
	Verbose     bool
	JSON        bool
}

// Meta describes the running binary.
type Meta struct {
	Cwd     string
	BinPath string
	Version string
}

// Options supplies the services for New. Nil services stay nil.
type Options struct {
	BottomBar *prompt.BottomBar
	Client    *network.Client
	Config    *config.Store
	Env       map[string]string
	Events    *events.Emitter
	Flags     Flags
	Hooks     *hooks.Engine
	Log       *ui.Logger
	Meta      Meta
	Namespace Namespace
	Plugins   *plugin.Registry
	Project   *project.Project
	Prompt    prompt.Module
	Session   *session.Session
	Shell     *shell.Shell
	Tasks     *tasks.Chain
	Telemetry telemetry.Telemetry
	// Stderr receives warnings from Open. Defaults to os.Stderr.
	Stderr io.Writer
}

// Environment is the execution context shared by one CLI invocation.
type Environment struct {
	Client    *network.Client
	Config    *config.Store
	Events    *events.Emitter
	Flags     Flags
	Hooks     *hooks.Engine
	Log       *ui.Logger
	Meta      Meta
	Namespace Namespace
	Plugins   *plugin.Registry
	Prompt    prompt.Module
	Shell     *shell.Shell
	Tasks     *tasks.Chain
	Telemetry telemetry.Telemetry

	// Command is the name of the command currently executing.
	Command string
	Project *project.Project
	Session *session.Session
	// Keepopen leaves the status bar and running tasks alone on Close, for
	// commands that hand the terminal to a long-running child process.
	Keepopen bool

	bottomBar *prompt.BottomBar
	env       map[string]string
	stderr    io.Writer
}

// New assembles an Environment from opts. It does not touch the terminal;
// call Open for that.
func New(opts Options) *Environment {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Environment{
		Client:    opts.Client,
		Config:    opts.Config,
		Events:    opts.Events,
		Flags:     opts.Flags,
		Hooks:     opts.Hooks,
		Log:       opts.Log,
		Meta:      opts.Meta,
		Namespace: opts.Namespace,
		Plugins:   opts.Plugins,
		Prompt:    opts.Prompt,
		Shell:     opts.Shell,
		Tasks:     opts.Tasks,
		Telemetry: opts.Telemetry,
		Project:   opts.Project,
		Session:   opts.Session,
		bottomBar: opts.BottomBar,
		env:       opts.Env,
		stderr:    stderr,
	}
}

// BottomBar returns the active status bar, if any.
func (e *Environment) BottomBar() *prompt.BottomBar {
	return e.bottomBar
}

// EnvVars returns the environment mapping passed to command dispatch.
func (e *Environment) EnvVars() map[string]string {
	return e.env
}

// Open prepares output for the session. In interactive mode it creates the
// status bar if needed and mutes its prompt echo; failing to mute is only
// reported. The logger is then pointed at the bar, or at standard output
// when there is none.
func (e *Environment) Open() error {
	if e.Flags.Interactive {
		if e.bottomBar == nil {
			bar, err := e.Prompt.NewBottomBar()
			if err != nil {
				return fmt.Errorf("create status bar: %w", err)
			}
			e.bottomBar = bar
		}

		if err := prompt.MuteEcho(e.bottomBar); err != nil {
			fmt.Fprintf(e.stderr, "EXCEPTION DURING BOTTOMBAR OUTPUT MUTE: %v\n", err)
		}
	}

	if e.bottomBar == nil {
		e.Log.SetStream(e.Log.Stdout())
		return nil
	}
	e.Log.SetStream(e.bottomBar.Log())
	if e.Tasks != nil {
		e.Tasks.SetStatusLine(e.bottomBar)
	}
	return nil
}

// Close stops running tasks and tears down the status bar, restoring the
// logger to standard output. It does nothing while Keepopen is set and is
// safe to call more than once or without Open.
func (e *Environment) Close() error {
	if e.Keepopen {
		return nil
	}

	if e.Tasks != nil {
		e.Tasks.Cleanup()
	}

	if e.bottomBar == nil {
		return nil
	}

	err := e.bottomBar.Close()
	e.bottomBar = nil
	if e.Tasks != nil {
		e.Tasks.SetStatusLine(nil)
	}
	e.Log.SetStream(e.Log.Stdout())
	return err
}

// RunOptions controls a single RunCommand dispatch.
type RunOptions struct {
	// ShowExecution echoes the command line before running it. Nil means
	// true.
	ShowExecution *bool
}

// RunCommand dispatches argv through the namespace. Errors from the command
// are returned unchanged.
func (e *Environment) RunCommand(ctx context.Context, argv []string, opts RunOptions) error {
	show := opts.ShowExecution == nil || *opts.ShowExecution
	if show {
		line := append([]string{e.Namespace.Metadata().Name}, argv...)
		e.Log.Msg("> %s", e.Log.Green(shell.FormatCommandLine(line)))
	}
	return e.Namespace.RunCommand(ctx, e, argv, e.env)
}

// Load resolves a registered plugin by name.
func (e *Environment) Load(name string) (plugin.Plugin, error) {
	if e.Plugins == nil {
		return nil, fmt.Errorf("%w: %s", plugin.ErrNotFound, name)
	}
	return e.Plugins.Load(name)
}
