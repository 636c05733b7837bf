package cmd

import (
	"fmt"

	"github.com/MrJJimenez/ionctl/internal/env"
)

type TelemetryCmd struct {
	State string `arg:"" optional:"" help:"on or off; omit to print the current setting."`
}

func (t *TelemetryCmd) Run(e *env.Environment) error {
	switch t.State {
	case "":
		e.Log.Msg("Telemetry: %s", onOff(e.Config.Config.Telemetry))
		return nil
	case "on":
		e.Config.Config.Telemetry = true
	case "off":
		e.Config.Config.Telemetry = false
	default:
		return fmt.Errorf("telemetry state must be on or off, got %q", t.State)
	}
	if err := e.Config.Save(); err != nil {
		return err
	}
	e.Log.Okf("Telemetry: %s", onOff(e.Config.Config.Telemetry))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
