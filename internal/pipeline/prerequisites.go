package pipeline

import (
	"context"
	"strings"

	"github.com/erpstack/erpstack/internal/errors"
)

const (
	checkoutDir  = "frappe_docker"
	checkoutRepo = "https://github.com/frappe/frappe_docker"
)

// Prerequisites verifies the execution target can run the deployment:
// connectivity, the container tooling, and a frappe_docker checkout to
// operate in. All checks run through the executor, so a remote run
// verifies the remote host, not this machine.
type Prerequisites struct{}

func (Prerequisites) Name() string { return "Prerequisites" }

func (Prerequisites) Run(ctx context.Context, env *Env) error {
	if env.Config.Remote() {
		env.Printer.Step("Connecting to %s", env.Exec.Target())
		if err := env.Exec.TestConnection(ctx); err != nil {
			env.Printer.Fail("Cannot reach %s", env.Exec.Target())
			return err
		}
		env.Printer.Success("Connected to %s", env.Exec.Target())
	}

	if line, ok := toolVersion(ctx, env, "docker --version"); ok {
		env.Printer.Success("%s", line)
	} else {
		env.Printer.Fail("Docker is not available on %s", env.Exec.Target())
		return errors.NewDockerMissingError()
	}

	if line, ok := toolVersion(ctx, env, "docker compose version"); ok {
		env.Printer.Success("%s", line)
	} else {
		env.Printer.Fail("Docker Compose v2 is not available on %s", env.Exec.Target())
		return errors.NewToolMissingError("Docker Compose")
	}

	return discoverCheckout(ctx, env)
}

// toolVersion runs a version probe and returns the first output line.
func toolVersion(ctx context.Context, env *Env, command string) (string, bool) {
	code, stdout, _, err := env.Exec.RunCapture(ctx, command)
	if err != nil || code != 0 {
		return "", false
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return line, true
}

// discoverCheckout finds or creates the frappe_docker checkout and
// records its location in the Env.
func discoverCheckout(ctx context.Context, env *Env) error {
	env.Printer.Step("Locating the frappe_docker checkout")

	code, _, _, err := env.Exec.RunCapture(ctx, "test -f compose.yaml")
	if err != nil {
		return err
	}
	if code == 0 {
		env.ProjectDir = "."
		env.Printer.Success("Using the checkout in the working directory")
		return nil
	}

	code, _, _, err = env.Exec.RunCapture(ctx, "test -d "+checkoutDir)
	if err != nil {
		return err
	}
	if code == 0 {
		env.ProjectDir = checkoutDir
		env.Printer.Success("Reusing the existing %s directory", checkoutDir)
		return nil
	}

	if line, ok := toolVersion(ctx, env, "git --version"); ok {
		env.Printer.Success("%s", line)
	} else {
		env.Printer.Fail("Git is required to download frappe_docker")
		return errors.NewToolMissingError("Git")
	}

	env.Printer.Step("Cloning %s", checkoutRepo)
	code, err = env.Exec.Run(ctx, "git clone "+checkoutRepo)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New(errors.ErrCodeCloneFailed, "could not clone frappe_docker").
			WithSuggestion("Check network access to github.com and free disk space on the target")
	}

	env.ProjectDir = checkoutDir
	env.Printer.Success("Checkout ready in ./%s", checkoutDir)
	return nil
}
