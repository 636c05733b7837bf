package cmd

import (
	"github.com/alecthomas/kong"
)

const (
	Name        = "ionctl"
	Description = "Build and manage Ionic apps."
)

type CLI struct {
	Color       string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON        bool   `help:"JSON output to stdout; disables colors and prompts."`
	Verbose     bool   `help:"Enable debug logging."`
	Interactive bool   `help:"Use prompts and the status bar." negatable:"" default:"true"`
	Confirm     bool   `help:"Answer yes to every confirmation prompt."`
	Proxy       string `help:"Comma-separated proxy URLs for API requests."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Version   VersionCmd   `cmd:"" help:"Print version."`
	Info      InfoCmd      `cmd:"" help:"Print project, framework and system information."`
	Config    ConfigCmd    `cmd:"" help:"Manage CLI configuration."`
	Login     LoginCmd     `cmd:"" help:"Log in to Ionic."`
	Logout    LogoutCmd    `cmd:"" help:"Log out of Ionic."`
	Build     BuildCmd     `cmd:"" help:"Build web assets for the current project."`
	Serve     ServeCmd     `cmd:"" help:"Start a local development server."`
	Telemetry TelemetryCmd `cmd:"" help:"Show or change telemetry opt-in."`
	Plugins   PluginsCmd   `cmd:"" help:"List loaded plugins."`
	Proxies   ProxiesCmd   `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}

// NewParser builds the kong parser for cli. Extra options are appended after
// the defaults so callers can override writers or the exit handler.
func NewParser(cli *CLI, version string, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name(Name),
		kong.Description(Description),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	}
	return kong.New(cli, append(opts, options...)...)
}
