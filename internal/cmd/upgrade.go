package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/envfile"
	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/releases"
	"github.com/erpstack/erpstack/internal/tui"
	"github.com/erpstack/erpstack/internal/ux"
	"github.com/erpstack/erpstack/internal/version"
)

var upgradeTarget targetFlags

var (
	upgradeVersion    string
	upgradeYes        bool
	upgradeSkipBackup bool
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade a deployed stack to a newer ERPNext version",
	Long: `Upgrade an existing deployment in place: back up every site, rewrite the
pinned versions in the environment file, pull the new images, restart the
containers and run the schema migrations.

Data volumes are never touched; the sites survive the upgrade.

Examples:
  # Upgrade to the latest published release
  erpstack upgrade

  # Upgrade to a specific version
  erpstack upgrade --version v16.8.0

  # Remote deployment
  erpstack upgrade --ssh-host erp.example.com --version v16.8.0
`,
	RunE: runUpgrade,
}

func init() {
	upgradeTarget.register(upgradeCmd)
	upgradeCmd.Flags().StringVar(&upgradeVersion, "version", "", "target ERPNext version (default: latest release)")
	upgradeCmd.Flags().BoolVar(&upgradeYes, "yes", false, "skip the confirmation prompt")
	upgradeCmd.Flags().BoolVar(&upgradeSkipBackup, "skip-backup", false, "do not back up the sites first")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := cmd.Context()
	printer := newPrinter()
	printer.Banner(version.GetInfo().Short())

	exec := upgradeTarget.executor()
	projectDir, err := locateProject(ctx, exec, upgradeTarget.project)
	if err != nil {
		return err
	}

	printer.Step("Reading the deployed version")
	current, err := deployedVersion(ctx, exec, projectDir)
	if err != nil {
		return ux.EnhanceError(err)
	}
	printer.Success("Currently deployed: %s", current)

	target, err := resolveUpgradeTarget(ctx, printer, current)
	if err != nil {
		return err
	}

	if target == current {
		printer.Info("Already on %s, nothing to do", current)
		return nil
	}

	printer.Info("Upgrade plan: %s to %s", current, target)
	if !upgradeYes && tui.ShouldPrompt() {
		proceed, err := tui.AskConfirm(fmt.Sprintf("Upgrade from %s to %s?", current, target), true)
		if err != nil {
			return err
		}
		if !proceed {
			printer.Info("Upgrade aborted, nothing changed")
			return nil
		}
	}

	steps := []struct {
		title string
		cmd   string
		skip  bool
	}{
		{
			title: "Backing up all sites",
			cmd:   "docker compose exec -T backend bench --site all backup",
			skip:  upgradeSkipBackup,
		},
		{
			title: "Pinning " + target + " in " + envfile.Name,
			cmd:   rewriteVersionsCmd(target),
		},
		{
			title: "Pulling the new images",
			cmd:   "docker compose pull",
		},
		{
			title: "Restarting the containers",
			cmd:   "docker compose up -d",
		},
		{
			title: "Running the schema migrations",
			cmd:   "docker compose exec -T backend bench --site all migrate",
		},
	}

	for _, step := range steps {
		if step.skip {
			continue
		}
		printer.Step("%s", step.title)
		code, err := exec.Run(ctx, inDir(projectDir, step.cmd))
		if err != nil {
			return ux.EnhanceError(err)
		}
		if code != 0 {
			printer.Fail("%s failed with exit code %d", step.title, code)
			return errors.NewCommandError(step.cmd, code).
				WithSuggestion("Inspect the container logs with 'docker compose logs backend'").
				WithSuggestion("The previous images are still present; rerun the upgrade after fixing the cause")
		}
		printer.Success("%s done", step.title)
	}

	printer.Blank()
	printer.Success("Upgraded to %s", target)
	printer.Detail("Check the stack with: erpstack status")
	return nil
}

// deployedVersion reads the pinned version from the environment file.
func deployedVersion(ctx context.Context, exec executor.Executor, projectDir string) (string, error) {
	code, stdout, _, err := exec.RunCapture(ctx, inDir(projectDir, "cat "+envfile.Name))
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.New(errors.ErrCodeConfigValidation,
			"no environment file found, is the stack deployed?").
			WithSuggestion("Run 'erpstack' first to deploy a stack")
	}
	current := envfile.Parse(stdout)["ERPNEXT_VERSION"]
	if current == "" {
		return "", errors.New(errors.ErrCodeConfigValidation,
			"the environment file does not pin ERPNEXT_VERSION")
	}
	return current, nil
}

// resolveUpgradeTarget picks the version to upgrade to: the flag value,
// an interactive selection, or the latest published release.
func resolveUpgradeTarget(ctx context.Context, printer *tui.Printer, current string) (string, error) {
	if upgradeVersion != "" {
		if err := config.ValidateVersion(upgradeVersion); err != nil {
			return "", errors.NewValidationError("version", err.Error())
		}
		return upgradeVersion, nil
	}

	spin := tui.NewSpinner(printer.Writer(), "Fetching published ERPNext releases")
	spin.Start()
	versions, err := releases.NewClient().FetchVersions(ctx)
	spin.Stop()
	if err == nil && len(versions) == 0 {
		err = fmt.Errorf("no stable releases published")
	}
	if err != nil {
		return "", errors.NewReleaseFetchError(err).
			WithSuggestion("Pass --version <tag> to upgrade without discovery")
	}

	if !tui.ShouldPrompt() {
		return versions[0], nil
	}

	options := make([]tui.Option, 0, len(versions))
	for _, v := range versions {
		label := v
		if v == current {
			label = v + " (current)"
		}
		options = append(options, tui.Option{Value: v, Label: label})
	}
	return tui.AskSelect("Target version", "Newest first.", options, versions[0])
}

// rewriteVersionsCmd pins both version keys in the environment file in one
// in-place edit. The values match the validated tag format, so embedding
// them in the sed expressions is safe.
func rewriteVersionsCmd(target string) string {
	erpnextExpr := fmt.Sprintf("s/^ERPNEXT_VERSION=.*/ERPNEXT_VERSION=%s/", target)
	frappeExpr := fmt.Sprintf("s/^FRAPPE_VERSION=.*/FRAPPE_VERSION=%s/", releases.BranchLabel(target))

	return strings.Join([]string{
		"sed -i",
		"-e", executor.Quote(erpnextExpr),
		"-e", executor.Quote(frappeExpr),
		envfile.Name,
	}, " ")
}
