// Package pipeline drives the fixed-order deployment stages against a
// resolved configuration and a single executor. Stages share one Env value;
// anything discovered at run time (the checkout location) lives there, never
// in the configuration.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/log"
	"github.com/erpstack/erpstack/internal/tui"
)

// Default health poll tuning. Tests inject smaller values.
const (
	DefaultHealthInterval = 5 * time.Second
	DefaultHealthTimeout  = 120 * time.Second
)

// Stage is one step of the deployment pipeline. A returned error aborts
// the run; recoverable problems are printed as warnings and swallowed.
type Stage interface {
	Name() string
	Run(ctx context.Context, env *Env) error
}

// Env is the shared state of one pipeline run.
type Env struct {
	Config  config.Config
	Exec    executor.Executor
	Printer *tui.Printer
	Log     *log.Logger

	// RunID tags every log line of this run.
	RunID string

	// Unattended disables every operator prompt; recoverable-by-retry
	// failures become fatal instead.
	Unattended bool

	// Confirm asks the operator a yes/no question. Nil in unattended runs.
	Confirm func(question string) (bool, error)

	// ProjectDir is the frappe_docker checkout the run operates in,
	// relative to the executor's working directory. Set by Prerequisites.
	ProjectDir string

	HealthInterval time.Duration
	HealthTimeout  time.Duration
}

// InDir prefixes a command with the change into the project checkout.
// Commands always carry their own directory change so the identical
// string works locally and through a fresh SSH session.
func (e *Env) InDir(command string) string {
	if e.ProjectDir == "" || e.ProjectDir == "." {
		return command
	}
	return fmt.Sprintf("cd %s && %s", e.ProjectDir, command)
}

// Options configures a pipeline run.
type Options struct {
	Printer    *tui.Printer
	Logger     *log.Logger
	Unattended bool
	Confirm    func(question string) (bool, error)
}

// Pipeline is the ordered stage list bound to one Env.
type Pipeline struct {
	env    *Env
	stages []Stage
}

// New assembles the five deployment stages for the given configuration
// and executor.
func New(cfg config.Config, exec executor.Executor, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	printer := opts.Printer
	if printer == nil {
		printer = tui.NewPrinter(nil, false)
	}

	runID := uuid.NewString()
	env := &Env{
		Config:         cfg,
		Exec:           exec,
		Printer:        printer,
		Log:            logger.With("run_id", runID[:8]),
		RunID:          runID,
		Unattended:     opts.Unattended,
		Confirm:        opts.Confirm,
		HealthInterval: DefaultHealthInterval,
		HealthTimeout:  DefaultHealthTimeout,
	}

	return &Pipeline{
		env: env,
		stages: []Stage{
			Prerequisites{},
			Configure{},
			MaterializeEnv{},
			BringUp{},
			Site{},
		},
	}
}

// Env exposes the run state, for tests and for callers that tune the
// health poll.
func (p *Pipeline) Env() *Env {
	return p.env
}

// Run executes the stages in order. The first fatal error aborts the
// run and is returned unchanged.
func (p *Pipeline) Run(ctx context.Context) error {
	total := len(p.stages)
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.env.Printer.StageHeader(i+1, total, stage.Name())
		p.env.Log.Info("stage starting", "stage", stage.Name())

		if err := stage.Run(ctx, p.env); err != nil {
			p.env.Log.WithError(err).Error("stage failed", "stage", stage.Name())
			return err
		}
		p.env.Log.Info("stage finished", "stage", stage.Name())
	}
	return nil
}
