package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigFileNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigFileInvalid  ErrorCode = "CONFIG-002"
	ErrCodeConfigValidation   ErrorCode = "CONFIG-003"
	ErrCodeConfigFlagsPartial ErrorCode = "CONFIG-004"

	// Executor errors (EXEC-001 to EXEC-099)
	ErrCodeExecUnavailable ErrorCode = "EXEC-001"
	ErrCodeExecConnection  ErrorCode = "EXEC-002"
	ErrCodeExecUpload      ErrorCode = "EXEC-003"

	// Orchestrated command errors (CMD-001 to CMD-099)
	ErrCodeCommandFailed ErrorCode = "CMD-001"
	ErrCodeToolMissing   ErrorCode = "CMD-002"
	ErrCodeCloneFailed   ErrorCode = "CMD-003"

	// Pipeline errors (PIPE-001 to PIPE-099)
	ErrCodeHealthTimeout  ErrorCode = "PIPE-001"
	ErrCodeSiteCreation   ErrorCode = "PIPE-002"
	ErrCodeStageAborted   ErrorCode = "PIPE-003"
	ErrCodeEnvMaterialize ErrorCode = "PIPE-004"

	// Release discovery errors (RELEASE-001 to RELEASE-099)
	ErrCodeReleaseFetch ErrorCode = "RELEASE-001"
)

// DeployError represents an enhanced error with code, suggestions, and documentation
type DeployError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *DeployError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DeployError) Unwrap() error {
	return e.Cause
}

// New creates a new DeployError
func New(code ErrorCode, message string) *DeployError {
	return &DeployError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DeployError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DeployError {
	return &DeployError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DeployError) WithSuggestion(suggestion string) *DeployError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DeployError) WithSuggestions(suggestions ...string) *DeployError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *DeployError) WithDocs(url string) *DeployError {
	e.DocsURL = url
	return e
}

// CodeOf extracts the error code from an error chain.
// Returns an empty code when no DeployError is present.
func CodeOf(err error) ErrorCode {
	var de *DeployError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidation reports whether the error is a recoverable input validation
// failure. Interactive flows re-prompt on these; unattended flows abort.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConfigValidation, ErrCodeConfigFlagsPartial:
		return true
	}
	return false
}

// IsUnavailable reports whether the execution target could not be reached
// or a process could not be launched at all. Always fatal.
func IsUnavailable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeExecUnavailable, ErrCodeExecConnection:
		return true
	}
	return false
}

// IsCommandFailed reports whether an orchestrated command exited non-zero.
func IsCommandFailed(err error) bool {
	switch CodeOf(err) {
	case ErrCodeCommandFailed, ErrCodeToolMissing, ErrCodeCloneFailed, ErrCodeSiteCreation:
		return true
	}
	return false
}

// IsTimeout reports whether a bounded wait expired. Timeouts are warnings,
// not fatal failures.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeHealthTimeout
}

// Common error constructors for frequently used errors

// NewValidationError creates an input validation error
func NewValidationError(field string, reason string) *DeployError {
	return New(ErrCodeConfigValidation, fmt.Sprintf("invalid %s: %s", field, reason))
}

// NewMissingFlagsError creates an error for a partially specified flag set
func NewMissingFlagsError(missing []string) *DeployError {
	return New(ErrCodeConfigFlagsPartial,
		fmt.Sprintf("missing required flags for unattended mode: --%s", strings.Join(missing, ", --"))).
		WithSuggestion("Provide the full required flag set (--mode, --site-name, --version, --db-password, --admin-password)").
		WithSuggestion("Or run without deployment flags for the interactive wizard").
		WithSuggestion("Or pass --config <file> to deploy from a YAML file")
}

// NewConfigFileError creates a config file parse error
func NewConfigFileError(path string, cause error) *DeployError {
	return Wrap(ErrCodeConfigFileInvalid, fmt.Sprintf("cannot load config file: %s", path), cause).
		WithSuggestion("Check the YAML syntax").
		WithSuggestion("Run 'erpstack init' to generate a valid sample file")
}

// NewDockerMissingError creates a container engine not available error
func NewDockerMissingError() *DeployError {
	return New(ErrCodeToolMissing, "docker is not available").
		WithSuggestion("Install Docker Engine or Docker Desktop").
		WithSuggestion("Make sure the Docker daemon is running").
		WithSuggestion("Run 'docker version' to verify the installation").
		WithDocs("https://docs.docker.com/get-docker/")
}

// NewToolMissingError creates an error for a required external tool
func NewToolMissingError(tool string) *DeployError {
	return New(ErrCodeToolMissing, fmt.Sprintf("required tool not available: %s", tool)).
		WithSuggestion(fmt.Sprintf("Install %s and make sure it is on PATH", tool))
}

// NewConnectionError creates a remote connection failure error
func NewConnectionError(host string, cause error) *DeployError {
	return Wrap(ErrCodeExecConnection, fmt.Sprintf("cannot reach remote host: %s", host), cause).
		WithSuggestion("Verify the host is reachable and the SSH port is open").
		WithSuggestion("Check --ssh-user and --ssh-key").
		WithSuggestion(fmt.Sprintf("Try 'ssh %s' manually to inspect the failure", host))
}

// NewCommandError creates an orchestrated command failure error
func NewCommandError(command string, exitCode int) *DeployError {
	return New(ErrCodeCommandFailed, fmt.Sprintf("command exited with status %d: %s", exitCode, command))
}

// NewHealthTimeoutError creates a bounded health poll expiry error
func NewHealthTimeoutError(waited string) *DeployError {
	return New(ErrCodeHealthTimeout, fmt.Sprintf("services not healthy after %s", waited)).
		WithSuggestion("Containers may still be starting; check 'erpstack status'").
		WithSuggestion("Inspect container logs with 'docker compose logs'")
}

// NewSiteCreationError creates a site provisioning failure error
func NewSiteCreationError(site string, exitCode int) *DeployError {
	return New(ErrCodeSiteCreation, fmt.Sprintf("site creation failed for %s (exit status %d)", site, exitCode)).
		WithSuggestion("Check the backend container logs with 'docker compose logs backend'").
		WithSuggestion("The database may need more time on first start; retry is usually safe")
}

// NewReleaseFetchError creates a release discovery failure error
func NewReleaseFetchError(cause error) *DeployError {
	return Wrap(ErrCodeReleaseFetch, "cannot fetch published releases", cause).
		WithSuggestion("Check network connectivity to api.github.com").
		WithSuggestion("Pass --version explicitly to skip discovery")
}
