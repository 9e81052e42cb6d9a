// Package ux provides output formatting shared by the reporting commands
// and error enhancement for the failures operators hit most often.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Formatter renders a command report for machine consumption. The
// reporting commands draw their human-readable views through the
// printer and delegate only json and yaml here.
type Formatter interface {
	Format(v any) error
}

// NewFormatter returns the formatter for a --format flag value. A nil
// writer defaults to os.Stdout.
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case "json":
		return jsonFormatter{w: w}, nil
	case "yaml":
		return yamlFormatter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (supported: text, json, yaml)", format)
	}
}

type jsonFormatter struct {
	w io.Writer
}

func (f jsonFormatter) Format(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type yamlFormatter struct {
	w io.Writer
}

func (f yamlFormatter) Format(v any) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
