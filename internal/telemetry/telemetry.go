package telemetry

import (
	"context"
	"runtime"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/MrJJimenez/ionctl/internal/network"
)

type Telemetry interface {
	Enabled() bool
	SendCommand(ctx context.Context, command string, args []string) error
}

// Noop drops everything.
type Noop struct{}

func (Noop) Enabled() bool { return false }

func (Noop) SendCommand(context.Context, string, []string) error { return nil }

type event struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Time    time.Time      `json:"timestamp"`
	Value   map[string]any `json:"value"`
}

// HTTP posts command metrics to the API.
type HTTP struct {
	client  network.Doer
	baseURL string
	version string
	enabled func() bool
	token   func() string
	now     func() time.Time
}

// NewHTTP builds an HTTP reporter. enabled is consulted on every send so a
// `telemetry off` inside the same invocation takes effect immediately; token
// may return "" for anonymous reports.
func NewHTTP(client network.Doer, baseURL, version string, enabled func() bool, token func() string) *HTTP {
	return &HTTP{
		client:  client,
		baseURL: baseURL,
		version: version,
		enabled: enabled,
		token:   token,
		now:     time.Now,
	}
}

func (h *HTTP) Enabled() bool {
	return h.enabled != nil && h.enabled()
}

func (h *HTTP) SendCommand(ctx context.Context, command string, args []string) error {
	if !h.Enabled() {
		return nil
	}

	payload := map[string]any{
		"metrics": []event{{
			Name:    "ionctl_command_metrics",
			Version: h.version,
			Time:    h.now().UTC(),
			Value: map[string]any{
				"command":   command,
				"arguments": args,
				"os":        runtime.GOOS,
				"arch":      runtime.GOARCH,
			},
		}},
	}

	req, err := network.NewRequest(ctx, h.baseURL, fhttp.MethodPost, "events/metrics", payload)
	if err != nil {
		return err
	}
	if h.token != nil {
		if token := h.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return network.DoJSON(h.client, req, nil)
}
