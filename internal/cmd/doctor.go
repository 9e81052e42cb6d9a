package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/exitcode"
	"github.com/erpstack/erpstack/internal/releases"
	"github.com/erpstack/erpstack/internal/tui"
	"github.com/erpstack/erpstack/internal/ux"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check this machine's readiness to deploy",
	Long: `Run the deployment preflight checks without deploying anything: container
tooling, daemon reachability, the checkout and release discovery.

Exits non-zero when a required piece is missing, so it can gate CI jobs.

Examples:
  # Human-readable report
  erpstack doctor

  # Machine-readable report
  erpstack doctor --format json
`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(doctorCmd)
}

// Check status values.
const (
	checkOK      = "ok"
	checkWarning = "warning"
	checkError   = "error"
)

// DoctorReport is the full preflight result.
type DoctorReport struct {
	Checks  []DoctorCheck `json:"checks" yaml:"checks"`
	Healthy bool          `json:"healthy" yaml:"healthy"`
}

// DoctorCheck is one preflight probe result.
type DoctorCheck struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := cmd.Context()

	report := buildDoctorReport(ctx, executor.NewLocal(), releases.NewClient())

	if doctorFormat != "text" {
		formatter, err := ux.NewFormatter(doctorFormat, nil)
		if err != nil {
			return err
		}
		if err := formatter.Format(report); err != nil {
			return err
		}
	} else {
		renderDoctorText(newPrinter(), report)
	}

	if !report.Healthy {
		return &exitcode.StatusError{Code: 1}
	}
	return nil
}

func buildDoctorReport(ctx context.Context, exec executor.Executor, client *releases.Client) *DoctorReport {
	report := &DoctorReport{Healthy: true}

	add := func(check DoctorCheck) {
		report.Checks = append(report.Checks, check)
		if check.Status == checkError {
			report.Healthy = false
		}
	}

	add(toolCheck(ctx, exec, "Docker client", "docker --version", checkError))
	add(daemonCheck(ctx, exec))
	add(toolCheck(ctx, exec, "Docker Compose v2", "docker compose version", checkError))
	add(toolCheck(ctx, exec, "Git", "git --version", checkWarning))
	add(toolCheck(ctx, exec, "SSH client", "ssh -V 2>&1", checkWarning))
	add(checkoutCheck(ctx, exec))
	add(releaseCheck(ctx, client))

	return report
}

// toolCheck probes a command-line tool and reports its version line.
// onMissing decides whether absence is fatal or merely inconvenient.
func toolCheck(ctx context.Context, exec executor.Executor, name, command, onMissing string) DoctorCheck {
	code, stdout, stderr, err := exec.RunCapture(ctx, command)
	if err != nil || code != 0 {
		return DoctorCheck{Name: name, Status: onMissing, Message: "not found on PATH"}
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout+stderr), "\n")
	return DoctorCheck{Name: name, Status: checkOK, Message: line}
}

func daemonCheck(ctx context.Context, exec executor.Executor) DoctorCheck {
	code, _, stderr, err := exec.RunCapture(ctx, "docker info --format {{.ServerVersion}}")
	if err != nil || code != 0 {
		message := "daemon not reachable, is Docker running?"
		if detail := strings.TrimSpace(stderr); detail != "" {
			line, _, _ := strings.Cut(detail, "\n")
			message = line
		}
		return DoctorCheck{Name: "Docker daemon", Status: checkError, Message: message}
	}
	return DoctorCheck{Name: "Docker daemon", Status: checkOK, Message: "reachable"}
}

func checkoutCheck(ctx context.Context, exec executor.Executor) DoctorCheck {
	if code, _, _, err := exec.RunCapture(ctx, "test -f compose.yaml"); err == nil && code == 0 {
		return DoctorCheck{Name: "frappe_docker checkout", Status: checkOK, Message: "working directory"}
	}
	if code, _, _, err := exec.RunCapture(ctx, "test -d frappe_docker"); err == nil && code == 0 {
		return DoctorCheck{Name: "frappe_docker checkout", Status: checkOK, Message: "./frappe_docker"}
	}
	return DoctorCheck{Name: "frappe_docker checkout", Status: checkWarning,
		Message: "not present, will be cloned on deploy"}
}

func releaseCheck(ctx context.Context, client *releases.Client) DoctorCheck {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	versions, err := client.FetchVersions(ctx)
	if err != nil || len(versions) == 0 {
		return DoctorCheck{Name: "Release discovery", Status: checkWarning,
			Message: "api.github.com not reachable, version prompts fall back to " + releases.DefaultVersion}
	}
	return DoctorCheck{Name: "Release discovery", Status: checkOK,
		Message: "latest published release is " + versions[0]}
}

func renderDoctorText(p *tui.Printer, report *DoctorReport) {
	p.Blank()
	for _, check := range report.Checks {
		switch check.Status {
		case checkOK:
			p.Success("%s: %s", check.Name, check.Message)
		case checkWarning:
			p.Warn("%s: %s", check.Name, check.Message)
		default:
			p.Fail("%s: %s", check.Name, check.Message)
		}
	}
	p.Blank()
	if report.Healthy {
		p.Success("Ready to deploy")
	} else {
		p.Fail("Not ready, fix the failed checks first")
	}
}
