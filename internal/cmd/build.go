package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/shell"
)

const npm = "npm"

type BuildCmd struct {
	Prod bool     `help:"Build for production."`
	Args []string `arg:"" optional:"" passthrough:"" help:"Extra arguments for the build script."`
}

type ServeCmd struct {
	Build bool   `help:"Run a build before starting the server."`
	Host  string `help:"Address to bind." default:"localhost"`
	Port  int    `help:"Port to listen on." default:"8100"`
}

func (b *BuildCmd) Run(ctx context.Context, e *env.Environment, vars EnvVars) error {
	if err := requireProject(e); err != nil {
		return err
	}

	args := []string{"run", "build"}
	extra := b.Args
	if b.Prod {
		extra = append([]string{"--prod"}, extra...)
	}
	if len(extra) > 0 {
		args = append(append(args, "--"), extra...)
	}

	name := e.Project.Name
	if name == "" {
		name = filepath.Base(e.Project.Directory)
	}
	e.Log.Infof("Building %s", e.Log.Bold(name))
	if err := e.Shell.Run(ctx, npm, args, shell.RunOptions{
		Cwd:           e.Project.Directory,
		Env:           vars,
		ShowExecution: true,
	}); err != nil {
		return err
	}
	e.Log.Okf("Build finished")
	return nil
}

// Run hands the terminal to the dev server until it exits or ctx is
// cancelled, so the environment is kept open.
func (s *ServeCmd) Run(ctx context.Context, e *env.Environment, vars EnvVars) error {
	if err := requireProject(e); err != nil {
		return err
	}

	if s.Build {
		show := false
		if err := e.RunCommand(ctx, []string{"build"}, env.RunOptions{ShowExecution: &show}); err != nil {
			return err
		}
	}

	e.Keepopen = true
	e.Log.Infof("Starting dev server at http://%s:%d", s.Host, s.Port)
	err := e.Shell.Run(ctx, npm, []string{
		"run", "ionic:serve", "--",
		"--address", s.Host,
		"--port", strconv.Itoa(s.Port),
	}, shell.RunOptions{
		Cwd:           e.Project.Directory,
		Env:           vars,
		ShowExecution: true,
	})
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return err
}
