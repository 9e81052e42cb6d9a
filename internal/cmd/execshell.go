package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/exitcode"
	"github.com/erpstack/erpstack/internal/ux"
)

var execTarget targetFlags

var execCmd = &cobra.Command{
	Use:   "exec [service] [-- command...]",
	Short: "Open a shell in a running service container",
	Long: `Attach the terminal to a running container of the stack. Without
arguments this opens a bash shell in the backend container.

Examples:
  # Shell in the backend container
  erpstack exec

  # Shell in the database container
  erpstack exec db

  # Run a single command instead of a shell
  erpstack exec backend -- bench --site all list-apps

  # Remote deployment
  erpstack exec --ssh-host erp.example.com
`,
	Args: cobra.ArbitraryArgs,
	RunE: runExec,
}

func init() {
	execTarget.register(execCmd)
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := cmd.Context()

	service := "backend"
	container := []string{"bash"}

	dash := cmd.ArgsLenAtDash()
	serviceArgs := args
	if dash >= 0 {
		serviceArgs = args[:dash]
		if rest := args[dash:]; len(rest) > 0 {
			container = rest
		}
	}
	switch len(serviceArgs) {
	case 0:
	case 1:
		service = serviceArgs[0]
	default:
		return fmt.Errorf("expected at most one service name, got %q", serviceArgs)
	}

	exec := execTarget.executor()
	projectDir, err := locateProject(ctx, exec, execTarget.project)
	if err != nil {
		return err
	}

	quoted := make([]string, len(container))
	for i, part := range container {
		quoted[i] = executor.Quote(part)
	}
	command := inDir(projectDir, fmt.Sprintf("docker compose exec %s %s",
		executor.Quote(service), strings.Join(quoted, " ")))

	runner, ok := exec.(executor.InteractiveRunner)
	if !ok {
		return errors.New(errors.ErrCodeExecUnavailable, "target cannot attach a terminal")
	}

	code, err := runner.RunInteractive(ctx, command)
	if err != nil {
		return ux.EnhanceError(err)
	}
	if code != 0 {
		return &exitcode.StatusError{Code: code}
	}
	return nil
}
