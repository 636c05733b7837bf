package env

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJJimenez/ionctl/internal/hooks"
	"github.com/MrJJimenez/ionctl/internal/plugin"
	"github.com/MrJJimenez/ionctl/internal/prompt"
	"github.com/MrJJimenez/ionctl/internal/tasks"
	"github.com/MrJJimenez/ionctl/internal/ui"
)

type fakePrompt struct {
	out  io.Writer
	bars int
}

func (f *fakePrompt) NewBottomBar() (*prompt.BottomBar, error) {
	f.bars++
	return prompt.NewBottomBar(f.out), nil
}

func (f *fakePrompt) Confirm(context.Context, string, bool) (bool, error) { return true, nil }

func (f *fakePrompt) Input(context.Context, string) (string, error) { return "", nil }

func (f *fakePrompt) Password(context.Context, string) (string, error) { return "", nil }

type fakeNamespace struct {
	calls   int
	argv    []string
	envVars map[string]string
	err     error
}

func (f *fakeNamespace) Metadata() Metadata { return Metadata{Name: "ionctl"} }

func (f *fakeNamespace) RunCommand(_ context.Context, _ *Environment, argv []string, envVars map[string]string) error {
	f.calls++
	f.argv = argv
	f.envVars = envVars
	return f.err
}

type harness struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	prompt *fakePrompt
	ns     *fakeNamespace
}

func newHarness(t *testing.T, interactive bool) *harness {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logger := ui.New(stdout, stderr, ui.ColorNever, true)
	fp := &fakePrompt{out: stdout}
	ns := &fakeNamespace{}

	e := New(Options{
		Env:       map[string]string{"IONCTL_ENV": "test"},
		Flags:     Flags{Interactive: interactive},
		Log:       logger,
		Namespace: ns,
		Prompt:    fp,
		Tasks:     tasks.NewChain(logger.Stream, false),
		Stderr:    stderr,
	})
	return &harness{env: e, stdout: stdout, stderr: stderr, prompt: fp, ns: ns}
}

func TestOpenNonInteractive(t *testing.T) {
	h := newHarness(t, false)

	require.NoError(t, h.env.Open())

	assert.Zero(t, h.prompt.bars)
	assert.Nil(t, h.env.BottomBar())
	assert.Same(t, h.stdout, h.env.Log.Stream())
}

func TestOpenInteractiveCreatesOneBar(t *testing.T) {
	h := newHarness(t, true)

	require.NoError(t, h.env.Open())
	require.NoError(t, h.env.Open())

	assert.Equal(t, 1, h.prompt.bars)
	require.NotNil(t, h.env.BottomBar())
	assert.Equal(t, h.env.BottomBar().Log(), h.env.Log.Stream())
	assert.Empty(t, h.stderr.String())
}

func TestOpenReusesSuppliedBar(t *testing.T) {
	h := newHarness(t, true)
	bar := prompt.NewBottomBar(h.stdout)
	h.env.bottomBar = bar

	require.NoError(t, h.env.Open())

	assert.Zero(t, h.prompt.bars)
	assert.Same(t, bar, h.env.BottomBar())
}

func TestOpenMuteFailureIsNonFatal(t *testing.T) {
	h := newHarness(t, true)
	bar := prompt.NewBottomBar(h.stdout)
	require.NoError(t, bar.Close())
	h.env.bottomBar = bar

	require.NoError(t, h.env.Open())

	assert.True(t, strings.HasPrefix(h.stderr.String(), "EXCEPTION DURING BOTTOMBAR OUTPUT MUTE: "))
	assert.Contains(t, h.stderr.String(), prompt.ErrNoOutputHandle.Error())
	assert.Equal(t, bar.Log(), h.env.Log.Stream())
}

func TestCloseKeepopen(t *testing.T) {
	h := newHarness(t, true)
	require.NoError(t, h.env.Open())
	bar := h.env.BottomBar()
	stream := h.env.Log.Stream()

	h.env.Keepopen = true
	require.NoError(t, h.env.Close())

	assert.Same(t, bar, h.env.BottomBar())
	assert.False(t, bar.Closed())
	assert.Equal(t, stream, h.env.Log.Stream())
}

func TestCloseTearsDownBar(t *testing.T) {
	h := newHarness(t, true)
	require.NoError(t, h.env.Open())
	bar := h.env.BottomBar()
	h.env.Tasks.Next("Building")

	require.NoError(t, h.env.Close())

	assert.True(t, bar.Closed())
	assert.Nil(t, h.env.BottomBar())
	assert.Same(t, h.stdout, h.env.Log.Stream())
	assert.False(t, h.env.Tasks.Running())

	assert.NotPanics(t, func() { require.NoError(t, h.env.Close()) })
}

func TestCloseWithoutOpen(t *testing.T) {
	h := newHarness(t, false)
	assert.NoError(t, h.env.Close())
	assert.Same(t, h.stdout, h.env.Log.Stream())
}

func TestRunCommandShowsExecution(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.env.Open())

	require.NoError(t, h.env.RunCommand(context.Background(), []string{"build"}, RunOptions{}))

	assert.Equal(t, "> ionctl build\n", h.stdout.String())
	assert.Equal(t, 1, h.ns.calls)
	assert.Equal(t, []string{"build"}, h.ns.argv)
	assert.Equal(t, map[string]string{"IONCTL_ENV": "test"}, h.ns.envVars)
}

func TestRunCommandQuotesSpaces(t *testing.T) {
	h := newHarness(t, false)
	show := true

	require.NoError(t, h.env.RunCommand(context.Background(), []string{"foo bar", "baz"}, RunOptions{ShowExecution: &show}))

	assert.Equal(t, "> ionctl \"foo bar\" baz\n", h.stdout.String())
}

func TestRunCommandHidden(t *testing.T) {
	h := newHarness(t, false)
	show := false

	require.NoError(t, h.env.RunCommand(context.Background(), []string{"build"}, RunOptions{ShowExecution: &show}))

	assert.Empty(t, h.stdout.String())
	assert.Equal(t, 1, h.ns.calls)
}

func TestRunCommandPropagatesError(t *testing.T) {
	h := newHarness(t, false)
	boom := errors.New("boom")
	h.ns.err = boom

	err := h.env.RunCommand(context.Background(), []string{"build"}, RunOptions{})

	assert.Same(t, boom, err)
}

type namedPlugin string

func (n namedPlugin) Name() string                { return string(n) }
func (n namedPlugin) Version() string             { return "1.0.0" }
func (n namedPlugin) RegisterHooks(*hooks.Engine) {}

func TestLoad(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.env.Load("cordova")
	assert.ErrorIs(t, err, plugin.ErrNotFound)

	h.env.Plugins = plugin.NewRegistry(hooks.NewEngine())
	require.NoError(t, h.env.Plugins.Register(namedPlugin("cordova")))
	p, err := h.env.Load("cordova")
	require.NoError(t, err)
	assert.Equal(t, "cordova", p.Name())
}
