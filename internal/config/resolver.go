package config

import (
	"github.com/erpstack/erpstack/internal/errors"
)

// Route identifies which construction route produced a configuration.
type Route int

const (
	// RouteFile loads everything from a YAML file.
	RouteFile Route = iota
	// RouteFlags builds everything from command-line flags.
	RouteFlags
	// RouteInteractive asks the operator field by field.
	RouteInteractive
)

// String returns the route name for logs.
func (r Route) String() string {
	switch r {
	case RouteFile:
		return "file"
	case RouteFlags:
		return "flags"
	default:
		return "interactive"
	}
}

// Unattended reports whether the route runs without an operator.
func (r Route) Unattended() bool {
	return r != RouteInteractive
}

// PromptFunc produces a configuration interactively. The wizard in the tui
// package implements it; tests substitute fakes.
type PromptFunc func() (Config, error)

// Sources describes the available input routes for one resolution.
type Sources struct {
	// ConfigPath is the --config value; when set the file route wins
	// outright and no other source is consulted.
	ConfigPath string
	// Flags holds the raw unattended flag values.
	Flags Flags
	// Prompt is the interactive fallback; nil when no terminal is
	// available.
	Prompt PromptFunc
}

// Resolve builds the deployment configuration with strict precedence:
// config file, then a complete flag set, then interactive prompts. The
// routes are independent; values are never merged across routes. A partial
// required flag set is a hard error so supplied flags are never silently
// dropped.
func Resolve(src Sources) (Config, Route, error) {
	if src.ConfigPath != "" {
		cfg, err := FromFile(src.ConfigPath)
		return cfg, RouteFile, err
	}

	if src.Flags.Any() {
		if missing := src.Flags.MissingRequired(); len(missing) > 0 {
			return Config{}, RouteFlags, errors.NewMissingFlagsError(missing)
		}
		cfg, err := FromFlags(src.Flags)
		return cfg, RouteFlags, err
	}

	if src.Prompt == nil {
		return Config{}, RouteInteractive, errors.New(errors.ErrCodeConfigValidation,
			"no configuration given and interactive prompts are not available").
			WithSuggestion("Pass --config <file> or the full unattended flag set")
	}

	cfg, err := src.Prompt()
	if err != nil {
		return Config{}, RouteInteractive, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, RouteInteractive, err
	}
	return cfg, RouteInteractive, nil
}
