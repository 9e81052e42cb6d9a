package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
)

// targetFlags points an operational subcommand at a deployment: this
// machine by default, a remote host when --ssh-host is given.
type targetFlags struct {
	sshHost string
	sshUser string
	sshPort string
	sshKey  string
	project string
}

// register adds the target flags to a subcommand.
func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.sshHost, "ssh-host", "", "operate on a remote host over SSH")
	cmd.Flags().StringVar(&t.sshUser, "ssh-user", "root", "remote user")
	cmd.Flags().StringVar(&t.sshPort, "ssh-port", "22", "remote SSH port")
	cmd.Flags().StringVar(&t.sshKey, "ssh-key", "", "SSH private key path")
	cmd.Flags().StringVar(&t.project, "project", "", "frappe_docker checkout directory")
}

// executor builds the command executor for the flagged target.
func (t *targetFlags) executor() executor.Executor {
	if t.sshHost != "" {
		return executor.NewSSH(t.sshHost, t.sshUser, t.sshPort, t.sshKey)
	}
	return executor.NewLocal()
}

// locateProject finds the checkout an operational command works on: the
// explicit --project value, the working directory when it holds a compose
// file, or the conventional frappe_docker directory.
func locateProject(ctx context.Context, exec executor.Executor, override string) (string, error) {
	if override != "" {
		code, _, _, err := exec.RunCapture(ctx, "test -d "+executor.Quote(override))
		if err != nil {
			return "", err
		}
		if code != 0 {
			return "", errors.New(errors.ErrCodeConfigValidation,
				"project directory not found: "+override)
		}
		return override, nil
	}

	code, _, _, err := exec.RunCapture(ctx, "test -f compose.yaml")
	if err != nil {
		return "", err
	}
	if code == 0 {
		return ".", nil
	}

	code, _, _, err = exec.RunCapture(ctx, "test -d frappe_docker")
	if err != nil {
		return "", err
	}
	if code == 0 {
		return "frappe_docker", nil
	}

	return "", errors.New(errors.ErrCodeConfigValidation, "no deployment found on the target").
		WithSuggestion("Run 'erpstack' first to deploy a stack").
		WithSuggestion("Or pass --project <dir> to point at the checkout")
}

// inDir prefixes a command with the change into the project directory, so
// the identical string works locally and through a fresh SSH session.
func inDir(projectDir, command string) string {
	if projectDir == "" || projectDir == "." {
		return command
	}
	return "cd " + projectDir + " && " + command
}
