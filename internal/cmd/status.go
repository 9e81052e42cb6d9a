package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/compose"
	"github.com/erpstack/erpstack/internal/envfile"
	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/tui"
	"github.com/erpstack/erpstack/internal/ux"
)

var statusTarget targetFlags

var (
	statusFormat string
	statusWatch  bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of a deployed stack",
	Long: `Display the container states, health and published ports of a deployed
ERPNext stack, together with the version recorded in its environment file.

Examples:
  # Local deployment
  erpstack status

  # Keep the view open and refreshing
  erpstack status --watch

  # Remote deployment
  erpstack status --ssh-host erp.example.com

  # Machine-readable output
  erpstack status --format json
`,
	RunE: runStatus,
}

func init() {
	statusTarget.register(statusCmd)
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "output format (text, json, yaml)")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "refresh the view until interrupted")
	rootCmd.AddCommand(statusCmd)
}

// StatusReport is a point-in-time snapshot of one deployment.
type StatusReport struct {
	Target     string          `json:"target" yaml:"target"`
	ProjectDir string          `json:"project_dir" yaml:"project_dir"`
	Version    string          `json:"version,omitempty" yaml:"version,omitempty"`
	Services   []ServiceStatus `json:"services" yaml:"services"`
	Healthy    bool            `json:"healthy" yaml:"healthy"`
	Timestamp  string          `json:"timestamp" yaml:"timestamp"`
}

// ServiceStatus is one container row of the report.
type ServiceStatus struct {
	Service string `json:"service" yaml:"service"`
	State   string `json:"state" yaml:"state"`
	Health  string `json:"health" yaml:"health"`
	Ports   string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := cmd.Context()

	exec := statusTarget.executor()
	projectDir, err := locateProject(ctx, exec, statusTarget.project)
	if err != nil {
		return err
	}

	if statusWatch {
		fetch := func(ctx context.Context) ([]compose.Service, error) {
			return fetchServices(ctx, exec, projectDir)
		}
		return tui.RunWatch(ctx, fetch, 3*time.Second, flagNoColor)
	}

	report, err := buildStatusReport(ctx, exec, projectDir)
	if err != nil {
		return ux.EnhanceError(err)
	}

	if statusFormat == "text" {
		renderStatusText(newPrinter(), report)
		return nil
	}

	formatter, err := ux.NewFormatter(statusFormat, nil)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}

// fetchServices lists the stack's containers through the executor.
func fetchServices(ctx context.Context, exec executor.Executor, projectDir string) ([]compose.Service, error) {
	code, stdout, stderr, err := exec.RunCapture(ctx, inDir(projectDir, "docker compose ps --format json"))
	if err != nil {
		return nil, err
	}
	if code != 0 {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = fmt.Sprintf("compose ps exited with status %d", code)
		}
		return nil, errors.New(errors.ErrCodeCommandFailed, detail).
			WithSuggestion("Is the stack deployed? Run 'erpstack' to deploy one")
	}
	return compose.ParsePS(stdout), nil
}

// buildStatusReport collects the service listing and the deployed version.
func buildStatusReport(ctx context.Context, exec executor.Executor, projectDir string) (*StatusReport, error) {
	services, err := fetchServices(ctx, exec, projectDir)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Target:     exec.Target(),
		ProjectDir: projectDir,
		Healthy:    compose.AllRunning(services),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	for _, svc := range services {
		report.Services = append(report.Services, ServiceStatus{
			Service: svc.DisplayName(),
			State:   svc.State,
			Health:  svc.HealthDisplay(),
			Ports:   svc.PortSummary(),
		})
	}

	// The version read is best effort; a missing .env leaves it blank.
	code, stdout, _, err := exec.RunCapture(ctx, inDir(projectDir, "cat "+envfile.Name))
	if err == nil && code == 0 {
		report.Version = envfile.Parse(stdout)["ERPNEXT_VERSION"]
	}

	return report, nil
}

func renderStatusText(p *tui.Printer, report *StatusReport) {
	rows := []tui.KV{
		{Key: "Target", Value: report.Target},
		{Key: "Project directory", Value: report.ProjectDir},
	}
	if report.Version != "" {
		rows = append(rows, tui.KV{Key: "ERPNext version", Value: report.Version})
	}
	p.KeyValues("Deployment", rows)

	if len(report.Services) == 0 {
		p.Warn("No services found, is the stack running?")
		return
	}

	var lines []string
	name, state, health := widths(report)
	lines = append(lines, fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		name, "SERVICE", state, "STATE", health, "HEALTH", "PORTS"))
	for _, svc := range report.Services {
		lines = append(lines, fmt.Sprintf("%-*s  %-*s  %-*s  %s",
			name, svc.Service, state, svc.State, health, svc.Health, svc.Ports))
	}
	p.Panel("Services", lines...)

	if report.Healthy {
		p.Success("All services are running")
	} else {
		p.Warn("Some services are not running, inspect them with: docker compose logs")
	}
}

// widths sizes the service table columns to their longest cell.
func widths(report *StatusReport) (name, state, health int) {
	name, state, health = len("SERVICE"), len("STATE"), len("HEALTH")
	for _, svc := range report.Services {
		if len(svc.Service) > name {
			name = len(svc.Service)
		}
		if len(svc.State) > state {
			state = len(svc.State)
		}
		if len(svc.Health) > health {
			health = len(svc.Health)
		}
	}
	return name, state, health
}
