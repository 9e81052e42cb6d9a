package ux

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a recovery hint for failures
// that originate outside our own error type, such as raw docker or ssh
// output surfaced through the executor.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions for the
// failure modes a deployment run hits most often.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	// Docker engine errors
	if strings.Contains(errMsg, "Cannot connect to the Docker daemon") {
		return NewErrorWithSuggestion(err,
			"Docker is not running. Start Docker and run 'docker ps' to verify")
	}
	if strings.Contains(errMsg, "docker") && strings.Contains(errMsg, "daemon") {
		return NewErrorWithSuggestion(err,
			"Start Docker Desktop or the docker daemon, then try again")
	}

	// Permission errors
	if strings.Contains(errMsg, "permission denied") {
		if strings.Contains(errMsg, "/var/run/docker.sock") {
			return NewErrorWithSuggestion(err,
				"Add your user to the docker group: sudo usermod -aG docker $USER (then logout/login)")
		}
		if strings.Contains(errMsg, "/etc/hosts") {
			return NewErrorWithSuggestion(err,
				"Re-run with sudo, or add the hosts entry manually")
		}
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the required files/directories")
	}

	// SSH errors
	if strings.Contains(errMsg, "Permission denied (publickey") {
		return NewErrorWithSuggestion(err,
			"The server rejected the key. Check --ssh-key and that the public key is in authorized_keys")
	}
	if strings.Contains(errMsg, "Host key verification failed") {
		return NewErrorWithSuggestion(err,
			"The host key changed since the last connection. Verify the server, then update ~/.ssh/known_hosts")
	}

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check that the host is reachable and the port is open")
	}
	if strings.Contains(errMsg, "Could not resolve host") || strings.Contains(errMsg, "no such host") {
		return NewErrorWithSuggestion(err,
			"Check the hostname and your DNS settings")
	}

	// Compose project errors
	if strings.Contains(errMsg, "no configuration file provided") {
		return NewErrorWithSuggestion(err,
			"Run the command from the frappe_docker checkout, or deploy first")
	}

	return err
}
