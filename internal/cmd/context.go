package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/events"
	"github.com/MrJJimenez/ionctl/internal/hooks"
	"github.com/MrJJimenez/ionctl/internal/project"
)

// EnvVars is the environment mapping a command was dispatched with. Commands
// that spawn processes hand it to the child.
type EnvVars map[string]string

// CommandEvent is the payload of events.CommandStart and events.CommandDone.
type CommandEvent struct {
	Command string
	Argv    []string
	Err     error
}

// Namespace is the root command set. It implements env.Namespace.
type Namespace struct{}

func NewNamespace() *Namespace {
	return &Namespace{}
}

func (n *Namespace) Metadata() env.Metadata {
	return env.Metadata{Name: Name, Description: Description}
}

// RunCommand parses argv, fires the before/after command hooks around the
// command and returns the command's own error unchanged. Hook failures are
// logged.
func (n *Namespace) RunCommand(ctx context.Context, e *env.Environment, argv []string, envVars map[string]string) error {
	cli := NewCLI()
	parser, err := NewParser(cli, e.Meta.Version,
		kong.Writers(e.Log, e.Log.ErrWriter()),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
	)
	if err != nil {
		return err
	}

	kctx, exited, err := parse(parser, argv)
	if err != nil {
		return err
	}
	if exited {
		return nil
	}

	previous := e.Command
	e.Command = kctx.Command()
	defer func() { e.Command = previous }()

	args := map[string]any{"env": e, "command": e.Command, "argv": argv}
	if _, err := e.Hooks.Fire(ctx, hooks.BeforeCommand, args); err != nil {
		e.Log.Warnf("%v", err)
	}
	e.Events.Emit(events.CommandStart, CommandEvent{Command: e.Command, Argv: argv})

	kctx.BindTo(ctx, (*context.Context)(nil))
	runErr := kctx.Run(e, EnvVars(envVars), cli)

	args["err"] = runErr
	if _, err := e.Hooks.Fire(ctx, hooks.AfterCommand, args); err != nil {
		e.Log.Warnf("%v", err)
	}
	e.Events.Emit(events.CommandDone, CommandEvent{Command: e.Command, Argv: argv, Err: runErr})

	if e.Telemetry != nil && e.Telemetry.Enabled() {
		if err := e.Telemetry.SendCommand(ctx, e.Command, redactArgs(argv)); err != nil {
			e.Log.Debugf("telemetry: %v", err)
		}
	}
	return runErr
}

// redactArgs hides secret flag values before argv leaves the machine.
func redactArgs(argv []string) []string {
	out := make([]string, 0, len(argv))
	hideNext := false
	for _, arg := range argv {
		switch {
		case hideNext:
			out = append(out, "*****")
			hideNext = false
		case arg == "--password":
			out = append(out, arg)
			hideNext = true
		case strings.HasPrefix(arg, "--password="):
			out = append(out, "--password=*****")
		default:
			out = append(out, arg)
		}
	}
	return out
}

// exitCode is raised by kong's exit hook after --help or --version so that
// parsing stops without terminating the process.
type exitCode int

func parse(parser *kong.Kong, argv []string) (kctx *kong.Context, exited bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(exitCode); !ok {
				panic(r)
			}
			kctx, exited, err = nil, true, nil
		}
	}()
	kctx, err = parser.Parse(argv)
	return kctx, false, err
}

var errNoProject = errors.New("this command must be run inside an Ionic project")

// requireProject fails unless the project config file exists. A config
// without a name still counts.
func requireProject(e *env.Environment) error {
	if e.Project == nil || e.Project.Directory == "" {
		return fmt.Errorf("%w (no %s found)", errNoProject, project.FileName)
	}
	if _, err := os.Stat(e.Project.Path()); err != nil {
		return fmt.Errorf("%w (no %s found)", errNoProject, project.FileName)
	}
	return nil
}
