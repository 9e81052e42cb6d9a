package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDeployErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *DeployError
		contains []string
	}{
		{
			name:     "code and message",
			err:      New(ErrCodeConfigValidation, "invalid site name"),
			contains: []string{"[CONFIG-003]", "invalid site name"},
		},
		{
			name:     "wrapped cause",
			err:      Wrap(ErrCodeExecConnection, "cannot reach remote host: erp.example.com", errors.New("connection refused")),
			contains: []string{"[EXEC-002]", "cannot reach remote host", "connection refused"},
		},
		{
			name: "suggestions",
			err: New(ErrCodeToolMissing, "docker is not available").
				WithSuggestion("Install Docker Engine").
				WithSuggestion("Run 'docker version' to verify"),
			contains: []string{"Suggestions:", "• Install Docker Engine", "• Run 'docker version' to verify"},
		},
		{
			name:     "documentation link",
			err:      New(ErrCodeToolMissing, "docker is not available").WithDocs("https://docs.docker.com/get-docker/"),
			contains: []string{"Documentation: https://docs.docker.com/get-docker/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Error() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestDeployErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeExecConnection, "cannot reach remote host", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() does not see the wrapped cause")
	}

	var de *DeployError
	if !errors.As(fmt.Errorf("stage failed: %w", err), &de) {
		t.Fatal("errors.As() does not find the DeployError through wrapping")
	}
	if de.Code != ErrCodeExecConnection {
		t.Errorf("Code = %q, want %q", de.Code, ErrCodeExecConnection)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"deploy error", New(ErrCodeSiteCreation, "site creation failed"), ErrCodeSiteCreation},
		{"wrapped deploy error", fmt.Errorf("run: %w", New(ErrCodeCommandFailed, "exited 1")), ErrCodeCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		code          ErrorCode
		validation    bool
		unavailable   bool
		commandFailed bool
		timeout       bool
	}{
		{code: ErrCodeConfigValidation, validation: true},
		{code: ErrCodeConfigFlagsPartial, validation: true},
		{code: ErrCodeExecUnavailable, unavailable: true},
		{code: ErrCodeExecConnection, unavailable: true},
		{code: ErrCodeCommandFailed, commandFailed: true},
		{code: ErrCodeToolMissing, commandFailed: true},
		{code: ErrCodeCloneFailed, commandFailed: true},
		{code: ErrCodeSiteCreation, commandFailed: true},
		{code: ErrCodeHealthTimeout, timeout: true},
		{code: ErrCodeConfigFileNotFound},
		{code: ErrCodeReleaseFetch},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "probe")
			if got := IsValidation(err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsUnavailable(err); got != tt.unavailable {
				t.Errorf("IsUnavailable() = %v, want %v", got, tt.unavailable)
			}
			if got := IsCommandFailed(err); got != tt.commandFailed {
				t.Errorf("IsCommandFailed() = %v, want %v", got, tt.commandFailed)
			}
			if got := IsTimeout(err); got != tt.timeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.timeout)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *DeployError
		wantCode    ErrorCode
		wantMessage string
		suggestions bool
	}{
		{
			name:        "validation",
			err:         NewValidationError("http-port", "must be between 1024 and 65535"),
			wantCode:    ErrCodeConfigValidation,
			wantMessage: "invalid http-port: must be between 1024 and 65535",
		},
		{
			name:        "partial flags",
			err:         NewMissingFlagsError([]string{"site-name", "db-password"}),
			wantCode:    ErrCodeConfigFlagsPartial,
			wantMessage: "missing required flags for unattended mode: --site-name, --db-password",
			suggestions: true,
		},
		{
			name:        "config file",
			err:         NewConfigFileError("deploy.yml", errors.New("yaml: line 3")),
			wantCode:    ErrCodeConfigFileInvalid,
			wantMessage: "cannot load config file: deploy.yml",
			suggestions: true,
		},
		{
			name:        "docker missing",
			err:         NewDockerMissingError(),
			wantCode:    ErrCodeToolMissing,
			wantMessage: "docker is not available",
			suggestions: true,
		},
		{
			name:        "tool missing",
			err:         NewToolMissingError("git"),
			wantCode:    ErrCodeToolMissing,
			wantMessage: "required tool not available: git",
			suggestions: true,
		},
		{
			name:        "connection",
			err:         NewConnectionError("erp.example.com", errors.New("timeout")),
			wantCode:    ErrCodeExecConnection,
			wantMessage: "cannot reach remote host: erp.example.com",
			suggestions: true,
		},
		{
			name:        "command failed",
			err:         NewCommandError("docker compose pull", 18),
			wantCode:    ErrCodeCommandFailed,
			wantMessage: "command exited with status 18: docker compose pull",
		},
		{
			name:        "health timeout",
			err:         NewHealthTimeoutError("120s"),
			wantCode:    ErrCodeHealthTimeout,
			wantMessage: "services not healthy after 120s",
			suggestions: true,
		},
		{
			name:        "site creation",
			err:         NewSiteCreationError("erp.localhost", 1),
			wantCode:    ErrCodeSiteCreation,
			wantMessage: "site creation failed for erp.localhost (exit status 1)",
			suggestions: true,
		},
		{
			name:        "release fetch",
			err:         NewReleaseFetchError(errors.New("403")),
			wantCode:    ErrCodeReleaseFetch,
			wantMessage: "cannot fetch published releases",
			suggestions: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMessage)
			}
			if tt.suggestions && len(tt.err.Suggestions) == 0 {
				t.Error("expected at least one suggestion")
			}
		})
	}
}
