package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/MrJJimenez/ionctl/internal/env"
	"github.com/MrJJimenez/ionctl/internal/hooks"
	"github.com/MrJJimenez/ionctl/internal/shell"
	"github.com/MrJJimenez/ionctl/internal/ui"
)

var infoGroupOrder = map[string]int{"cli": 0, "project": 1, "system": 2}

type InfoCmd struct{}

func (i *InfoCmd) Run(ctx context.Context, e *env.Environment) error {
	items := []env.InfoItem{{Group: "cli", Key: Name, Value: e.Meta.Version}}
	if e.Meta.BinPath != "" {
		items = append(items, env.InfoItem{Group: "cli", Key: "binary", Value: ui.PrettyPath(e.Meta.BinPath)})
	}
	if requireProject(e) == nil {
		items = append(items,
			env.InfoItem{Group: "project", Key: "name", Value: e.Project.Name},
			env.InfoItem{Group: "project", Key: "type", Value: e.Project.Type},
			env.InfoItem{Group: "project", Key: "root", Value: ui.PrettyPath(e.Project.Directory)},
		)
	}

	results, err := e.Hooks.Fire(ctx, hooks.InfoGather, map[string]any{"env": e})
	if err != nil {
		e.Log.Warnf("%v", err)
	}
	for _, result := range results {
		if contributed, ok := result.([]env.InfoItem); ok {
			items = append(items, contributed...)
		}
	}

	items = append(items,
		env.InfoItem{Group: "system", Key: "os", Value: runtime.GOOS + "/" + runtime.GOARCH},
		env.InfoItem{Group: "system", Key: "node", Value: toolVersion(ctx, e, "node")},
		env.InfoItem{Group: "system", Key: "npm", Value: toolVersion(ctx, e, "npm")},
	)
	sortInfo(items)
	return writeInfo(e, items)
}

func toolVersion(ctx context.Context, e *env.Environment, name string) string {
	out, err := e.Shell.Output(ctx, name, []string{"--version"}, shell.RunOptions{})
	if err != nil {
		e.Log.Debugf("%s --version: %v", name, err)
		return "not installed"
	}
	return out
}

func sortInfo(items []env.InfoItem) {
	sort.SliceStable(items, func(a, b int) bool {
		ga, oka := infoGroupOrder[items[a].Group]
		gb, okb := infoGroupOrder[items[b].Group]
		if !oka {
			ga = len(infoGroupOrder)
		}
		if !okb {
			gb = len(infoGroupOrder)
		}
		return ga < gb
	})
}

func writeInfo(e *env.Environment, items []env.InfoItem) error {
	if e.Flags.JSON {
		enc := json.NewEncoder(e.Log)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	tw := tabwriter.NewWriter(e.Log, 0, 4, 2, ' ', 0)
	group := ""
	for _, item := range items {
		if item.Group != group {
			if group != "" {
				fmt.Fprintln(tw)
			}
			group = item.Group
			fmt.Fprintf(tw, "%s:\n", e.Log.Bold(group))
		}
		fmt.Fprintf(tw, "   %s\t: %s\n", item.Key, item.Value)
	}
	return tw.Flush()
}
