package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/MrJJimenez/ionctl/internal/env"
)

type PluginsCmd struct{}

type pluginRow struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (p *PluginsCmd) Run(e *env.Environment) error {
	var rows []pluginRow
	if e.Plugins != nil {
		for _, plug := range e.Plugins.List() {
			rows = append(rows, pluginRow{Name: plug.Name(), Version: plug.Version()})
		}
	}

	if e.Flags.JSON {
		enc := json.NewEncoder(e.Log)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		e.Log.Infof("No plugins loaded.")
		return nil
	}

	tw := tabwriter.NewWriter(e.Log, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tversion")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Name, row.Version)
	}
	return tw.Flush()
}
