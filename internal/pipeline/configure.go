package pipeline

import (
	"context"

	"github.com/erpstack/erpstack/internal/tui"
)

// Configure is the pipeline's validation gate. The configuration was
// resolved and confirmed before the pipeline started, so this stage
// re-validates the frozen value and shows the deployment plan.
type Configure struct{}

func (Configure) Name() string { return "Configuration" }

func (Configure) Run(ctx context.Context, env *Env) error {
	if err := env.Config.Validate(); err != nil {
		return err
	}

	rows := append([]tui.KV{
		{Key: "Execution target", Value: env.Exec.Target()},
		{Key: "Project directory", Value: env.ProjectDir},
	}, tui.SummaryRows(env.Config)...)

	env.Printer.KeyValues("Deployment plan", rows)
	env.Printer.Success("Configuration is valid")

	env.Log.Info("configuration frozen",
		"mode", string(env.Config.Mode),
		"site", env.Config.SiteName,
		"version", env.Config.Version,
		"db_type", string(env.Config.DBType),
		"project_dir", env.ProjectDir,
	)
	return nil
}
