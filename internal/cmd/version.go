package cmd

import "github.com/MrJJimenez/ionctl/internal/env"

type VersionCmd struct{}

func (v *VersionCmd) Run(e *env.Environment) error {
	e.Log.Msg("%s", e.Meta.Version)
	return nil
}
