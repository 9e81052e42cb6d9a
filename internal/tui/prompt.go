package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// Option is a single selectable choice with a machine value and a
// human-readable label.
type Option struct {
	Value string
	Label string
}

// runField runs a single-field form. Ctrl+C maps to context.Canceled so
// the process exits with the interrupt code.
func runField(field huh.Field) error {
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return context.Canceled
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// AskString displays a validated text input and returns the entered
// value. The validate function runs on every submit attempt; the prompt
// re-asks until it passes.
func AskString(title, description, placeholder, initial string, validate func(string) error) (string, error) {
	value := initial

	input := huh.NewInput().
		Title(title).
		Description(description).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		input = input.Validate(validate)
	}

	if err := runField(input); err != nil {
		return "", err
	}
	return value, nil
}

// AskPassword displays a masked input with a confirmation re-entry. It
// loops until both entries match.
func AskPassword(p *Printer, title string, minLength int) (string, error) {
	validate := func(s string) error {
		if len(s) < minLength {
			return fmt.Errorf("must be at least %d characters", minLength)
		}
		return nil
	}

	description := "Input is hidden."
	if minLength > 1 {
		description = fmt.Sprintf("At least %d characters. Avoid quotes and backslashes.", minLength)
	}

	for {
		var password string
		input := huh.NewInput().
			Title(title).
			Description(description).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(validate)
		if err := runField(input); err != nil {
			return "", err
		}

		var confirm string
		confirmInput := huh.NewInput().
			Title("Confirm " + title).
			EchoMode(huh.EchoModePassword).
			Value(&confirm)
		if err := runField(confirmInput); err != nil {
			return "", err
		}

		if password == confirm {
			p.Success("%s set", title)
			return password, nil
		}
		p.Fail("Passwords do not match, try again")
	}
}

// AskSelect displays a single-choice list and returns the value of the
// chosen option.
func AskSelect(title, description string, options []Option, initial string) (string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	selected := initial
	field := huh.NewSelect[string]().
		Title(title).
		Description(description).
		Options(huhOptions...).
		Value(&selected)

	if err := runField(field); err != nil {
		return "", err
	}
	return selected, nil
}

// AskMultiSelect displays a multi-choice list and returns the values of
// all chosen options. Choosing nothing is valid.
func AskMultiSelect(title, description string, options []Option) ([]string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Description(description).
		Options(huhOptions...).
		Value(&selected)

	if err := runField(field); err != nil {
		return nil, err
	}
	return selected, nil
}

// AskConfirm displays a yes/no prompt.
func AskConfirm(title string, defaultValue bool) (bool, error) {
	confirmed := defaultValue
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runField(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt reports whether interactive prompts may be shown.
// Prompts are disabled in CI environments and when stdin is piped.
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
