package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDoer struct {
	calls  int
	auth   string
	path   string
	parsed map[string]any
}

func (r *recordingDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	r.calls++
	r.auth = req.Header.Get("Authorization")
	r.path = req.URL.Path
	_ = json.NewDecoder(req.Body).Decode(&r.parsed)
	return &fhttp.Response{StatusCode: 204, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func TestHTTPSendCommand(t *testing.T) {
	doer := &recordingDoer{}
	h := NewHTTP(doer, "https://api.example.com", "1.0.0",
		func() bool { return true },
		func() string { return "tok" },
	)

	require.NoError(t, h.SendCommand(context.Background(), "build", []string{"--prod"}))

	assert.Equal(t, 1, doer.calls)
	assert.Equal(t, "/events/metrics", doer.path)
	assert.Equal(t, "Bearer tok", doer.auth)
	metrics, ok := doer.parsed["metrics"].([]any)
	require.True(t, ok)
	require.Len(t, metrics, 1)
	value := metrics[0].(map[string]any)["value"].(map[string]any)
	assert.Equal(t, "build", value["command"])
}

func TestHTTPDisabledSendsNothing(t *testing.T) {
	doer := &recordingDoer{}
	h := NewHTTP(doer, "https://api.example.com", "1.0.0", func() bool { return false }, nil)

	require.NoError(t, h.SendCommand(context.Background(), "build", nil))
	assert.Zero(t, doer.calls)
	assert.False(t, h.Enabled())
}

func TestNoop(t *testing.T) {
	var tel Telemetry = Noop{}
	assert.False(t, tel.Enabled())
	assert.NoError(t, tel.SendCommand(context.Background(), "x", nil))
}
