package framework

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/hooks"
)

func TestPluginGathersInfo(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, filepath.Join("ionic-angular", "package.json"), `{"version": "3.9.2"}`)
	e, _ := newEnv(t, dir)

	engine := hooks.NewEngine()
	NewPlugin("1.0.0").RegisterHooks(engine)
	assert.Equal(t, []string{PluginName}, engine.Sources(hooks.InfoGather))

	results, err := engine.Fire(context.Background(), hooks.InfoGather, map[string]any{"env": e})
	require.NoError(t, err)
	require.Len(t, results, 1)

	items := results[0].([]env.InfoItem)
	assert.Equal(t, []env.InfoItem{
		{Group: "project", Key: "ionic-angular", Value: "3.9.2"},
		{Group: "project", Key: "@ionic/app-scripts", Value: "not installed"},
	}, items)
}

func TestPluginIgnoresMissingEnv(t *testing.T) {
	got, err := NewPlugin("1.0.0").gatherInfo(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, got)
}
