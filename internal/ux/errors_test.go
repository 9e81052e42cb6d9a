package ux

import (
	"errors"
	"strings"
	"testing"
)

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "docker daemon down",
			err:            errors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock"),
			wantSuggestion: "Docker is not running",
		},
		{
			name:           "docker socket permission",
			err:            errors.New("permission denied while trying to connect to /var/run/docker.sock"),
			wantSuggestion: "docker group",
		},
		{
			name:           "hosts file permission",
			err:            errors.New("open /etc/hosts: permission denied"),
			wantSuggestion: "sudo",
		},
		{
			name:           "ssh key rejected",
			err:            errors.New("root@server: Permission denied (publickey,password)"),
			wantSuggestion: "authorized_keys",
		},
		{
			name:           "unknown host",
			err:            errors.New("ssh: Could not resolve host: badname"),
			wantSuggestion: "DNS",
		},
		{
			name:           "missing compose project",
			err:            errors.New("no configuration file provided: not found"),
			wantSuggestion: "frappe_docker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			if !strings.Contains(got.Error(), tt.wantSuggestion) {
				t.Errorf("EnhanceError() = %q, want suggestion containing %q", got.Error(), tt.wantSuggestion)
			}
			if !errors.Is(got, tt.err) {
				t.Error("EnhanceError() lost the original error from the chain")
			}
		})
	}
}

func TestEnhanceErrorPassthrough(t *testing.T) {
	if got := EnhanceError(nil); got != nil {
		t.Errorf("EnhanceError(nil) = %v, want nil", got)
	}

	plain := errors.New("some other failure")
	if got := EnhanceError(plain); got != plain {
		t.Errorf("EnhanceError() rewrote an error it has no hint for: %v", got)
	}
}
