package pipeline

import (
	"context"

	"github.com/erpstack/erpstack/internal/envfile"
)

// MaterializeEnv renders the environment descriptor and places it in the
// project checkout on the execution target.
type MaterializeEnv struct{}

func (MaterializeEnv) Name() string { return "Environment" }

func (MaterializeEnv) Run(ctx context.Context, env *Env) error {
	env.Printer.Step("Writing %s into %s", envfile.Name, env.ProjectDir)

	if err := envfile.Materialize(ctx, env.Exec, env.Config, env.ProjectDir); err != nil {
		return err
	}

	env.Printer.Success("Environment descriptor in place")
	env.Log.Info("environment descriptor written",
		"project_dir", env.ProjectDir,
		"version", env.Config.Version,
	)
	return nil
}
