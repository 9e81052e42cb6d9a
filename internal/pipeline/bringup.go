package pipeline

import (
	"context"
	"time"

	"github.com/erpstack/erpstack/internal/compose"
	"github.com/erpstack/erpstack/internal/errors"
)

// BringUp restarts the container stack: a non-destructive down, a
// detached up, then a bounded poll until every service reports running.
type BringUp struct{}

func (BringUp) Name() string { return "Containers" }

func (b BringUp) Run(ctx context.Context, env *Env) error {
	composeCmd := env.InDir(compose.Command(env.Config))

	env.Printer.Step("Stopping any previous stack (data volumes are kept)")
	code, err := env.Exec.Run(ctx, composeCmd+" down")
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewCommandError("docker compose down", code)
	}
	env.Printer.Success("Previous stack stopped")

	env.Printer.Step("Starting containers")
	env.Printer.Info("The first run downloads several images and can take a few minutes")
	code, err = env.Exec.Run(ctx, composeCmd+" up -d")
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewCommandError("docker compose up -d", code)
	}
	env.Printer.Success("Containers started")

	return b.waitForRunning(ctx, env, composeCmd)
}

// waitForRunning polls `ps --format json` until the listing is non-empty
// and every service is running. Hitting the timeout is a warning, not a
// failure: image pulls on slow links routinely exceed it and the site
// stage re-probes anyway.
func (BringUp) waitForRunning(ctx context.Context, env *Env, composeCmd string) error {
	env.Printer.Step("Waiting for services to report running (up to %s)", env.HealthTimeout)

	deadline := time.Now().Add(env.HealthTimeout)
	for {
		code, stdout, _, err := env.Exec.RunCapture(ctx, composeCmd+" ps --format json")
		if err == nil && code == 0 {
			if services := compose.ParsePS(stdout); compose.AllRunning(services) {
				env.Printer.Success("All %d services are running", len(services))
				return nil
			}
		}

		if !time.Now().Before(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(env.HealthInterval):
		}
	}

	env.Printer.Warn("Not every service reported running within %s, continuing anyway", env.HealthTimeout)
	env.Printer.Detail("Watch them come up with: erpstack status --watch")
	env.Log.WithError(errors.NewHealthTimeoutError(env.HealthTimeout.String())).
		Warn("health poll timed out")
	return nil
}
