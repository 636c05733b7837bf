package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/ui"
)

type ConfigCmd struct {
	Get  GetConfigCmd  `cmd:"" help:"Print a config value, or the whole config."`
	Set  SetConfigCmd  `cmd:"" help:"Set a config value."`
	Init InitConfigCmd `cmd:"" help:"Write the default config file."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
}

type GetConfigCmd struct {
	Key string `arg:"" optional:"" help:"Dotted key, e.g. urls.api."`
}

type SetConfigCmd struct {
	Key   string `arg:"" help:"Dotted key, e.g. telemetry."`
	Value string `arg:"" help:"New value; parsed as JSON when possible."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

func (c *GetConfigCmd) Run(e *env.Environment) error {
	value, err := e.Config.Get(c.Key)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok && !e.Flags.JSON {
		e.Log.Msg("%s", s)
		return nil
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	e.Log.Msg("%s", data)
	return nil
}

func (c *SetConfigCmd) Run(e *env.Environment) error {
	if err := e.Config.Set(c.Key, c.Value); err != nil {
		return err
	}
	if err := e.Config.Save(); err != nil {
		return err
	}
	e.Log.Okf("Set %s in %s", e.Log.Bold(c.Key), ui.PrettyPath(e.Config.Path))
	return nil
}

func (c *InitConfigCmd) Run(e *env.Environment) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		e.Log.Infof("Config already initialized at %s", ui.PrettyPath(dir))
		return nil
	}
	pretty := make([]string, 0, len(paths))
	for _, p := range paths {
		pretty = append(pretty, ui.PrettyPath(p))
	}
	e.Log.Infof("Created: %s", strings.Join(pretty, ", "))
	return nil
}

func (c *PathConfigCmd) Run(e *env.Environment) error {
	e.Log.Msg("%s", filepath.Dir(e.Config.Path))
	return nil
}
