package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrJJimenez/ionctl/internal/cmd"
	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/events"
	"github.com/MrJJimenez/ionctl/internal/framework"
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

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := cmd.NewParser(cli, versionString)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Parsed here for the global flags and for --help; the namespace parses
	// argv again when the command is dispatched.
	args := os.Args[1:]
	if _, err := parser.Parse(args); err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("IONCTL_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		os.Exit(1)
	}

	store, err := config.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(cli.Color), cli.JSON)
	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger.SetDebugLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())

	tty := ui.IsTTY(os.Stdout)
	flags := env.Flags{
		Interactive: cli.Interactive && store.Config.Interactive && tty && !cli.JSON,
		Confirm:     cli.Confirm,
		Verbose:     cli.Verbose,
		JSON:        cli.JSON,
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	proj, err := project.Resolve(cwd)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	var rotator *network.Rotator
	if proxies := config.LoadProxies(cli.Proxy, store.Config); len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 5*time.Minute)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	client, err := network.NewClient(store.Config.URLs.API, rotator)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	sess := session.New(store, client)
	tel := telemetry.NewHTTP(client, store.Config.URLs.API, versionString,
		func() bool { return store.Config.Telemetry },
		func() string {
			token, _ := sess.UserToken()
			return token
		},
	)

	hookEngine := hooks.NewEngine()
	plugins := plugin.NewRegistry(hookEngine)
	if err := plugins.Register(framework.NewPlugin(versionString)); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	binPath, _ := os.Executable()
	e := env.New(env.Options{
		Client:    client,
		Config:    store,
		Env:       environMap(os.Environ()),
		Events:    events.NewEmitter(),
		Flags:     flags,
		Hooks:     hookEngine,
		Log:       logger,
		Meta:      env.Meta{Cwd: cwd, BinPath: binPath, Version: versionString},
		Namespace: cmd.NewNamespace(),
		Plugins:   plugins,
		Project:   proj,
		Prompt:    prompt.NewTerminal(os.Stdin, os.Stdout, flags.Interactive),
		Session:   sess,
		Shell:     shell.New(logger),
		Tasks:     tasks.NewChain(logger.Stream, tty && !cli.JSON),
		Telemetry: tel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := e.Open(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	show := false
	runErr := e.RunCommand(ctx, args, env.RunOptions{ShowExecution: &show})
	if err := e.Close(); err != nil {
		logger.Debugf("close: %v", err)
	}
	if runErr != nil {
		logger.Errorf("%v", runErr)
		stop()
		os.Exit(1)
	}
}

func buildVersion() string {
	if commit == "" && date == "" {
		return version
	}
	if commit == "" {
		return fmt.Sprintf("%s (%s)", version, date)
	}
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("IONCTL_JSON") {
		cli.JSON = true
	}
	if envBool("IONCTL_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("IONCTL_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func environMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return vars
}
