package framework

import (
	"context"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/hooks"
)

const (
	PluginName = "ionic-angular"
	infoGroup  = "project"
)

// Plugin reports installed framework versions during `info`.
type Plugin struct {
	version string
}

func NewPlugin(version string) *Plugin {
	return &Plugin{version: version}
}

func (p *Plugin) Name() string    { return PluginName }
func (p *Plugin) Version() string { return p.version }

func (p *Plugin) RegisterHooks(engine *hooks.Engine) {
	engine.Register(PluginName, hooks.InfoGather, p.gatherInfo)
}

// gatherInfo expects args["env"] to hold the running *env.Environment.
func (p *Plugin) gatherInfo(_ context.Context, args map[string]any) (any, error) {
	e, ok := args["env"].(*env.Environment)
	if !ok || e == nil {
		return nil, nil
	}
	versions := Detect(e)
	return []env.InfoItem{
		{Group: infoGroup, Key: "ionic-angular", Value: displayVersion(versions.IonicAngular, versions.HasIonicAngular)},
		{Group: infoGroup, Key: "@ionic/app-scripts", Value: displayVersion(versions.AppScripts, versions.HasAppScripts)},
	}, nil
}

func displayVersion(version string, ok bool) string {
	if !ok {
		return "not installed"
	}
	if version == "" {
		return "unknown"
	}
	return version
}
