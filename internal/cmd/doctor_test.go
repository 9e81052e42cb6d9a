package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erpstack/erpstack/internal/releases"
)

func releasesServer(t *testing.T, tags string) *releases.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(tags))
			return
		}
		w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	client := releases.NewClient()
	client.BaseURL = srv.URL
	return client
}

func findCheck(t *testing.T, report *DoctorReport, name string) DoctorCheck {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("check %q not in report", name)
	return DoctorCheck{}
}

func TestBuildDoctorReportHealthy(t *testing.T) {
	exec := newFakeExecutor(func(command string) (int, string, string, error) {
		switch {
		case command == "docker --version":
			return 0, "Docker version 27.1.1, build 6312585\n", "", nil
		case strings.HasPrefix(command, "docker info"):
			return 0, "27.1.1\n", "", nil
		case command == "docker compose version":
			return 0, "Docker Compose version v2.29.0\n", "", nil
		case command == "git --version":
			return 127, "", "git: command not found", nil
		case strings.HasPrefix(command, "ssh -V"):
			return 0, "OpenSSH_9.6p1 Ubuntu-3ubuntu13\n", "", nil
		case command == "test -f compose.yaml":
			return 1, "", "", nil
		case command == "test -d frappe_docker":
			return 0, "", "", nil
		}
		return 0, "", "", nil
	})
	client := releasesServer(t, `[{"name":"v16.10.0"},{"name":"v16.9.1"}]`)

	report := buildDoctorReport(context.Background(), exec, client)

	if !report.Healthy {
		t.Errorf("Healthy = false, checks: %+v", report.Checks)
	}

	docker := findCheck(t, report, "Docker client")
	if docker.Status != checkOK || docker.Message != "Docker version 27.1.1, build 6312585" {
		t.Errorf("Docker client check = %+v", docker)
	}

	// A missing git is survivable: the deploy fails later only when a
	// clone is actually needed.
	git := findCheck(t, report, "Git")
	if git.Status != checkWarning {
		t.Errorf("Git status = %q, want warning", git.Status)
	}

	checkout := findCheck(t, report, "frappe_docker checkout")
	if checkout.Status != checkOK || checkout.Message != "./frappe_docker" {
		t.Errorf("checkout check = %+v", checkout)
	}

	release := findCheck(t, report, "Release discovery")
	if release.Status != checkOK || !strings.Contains(release.Message, "v16.10.0") {
		t.Errorf("release check = %+v", release)
	}
}

func TestBuildDoctorReportDockerMissing(t *testing.T) {
	exec := newFakeExecutor(func(command string) (int, string, string, error) {
		if strings.HasPrefix(command, "docker") {
			return 127, "", "docker: command not found", nil
		}
		return 0, "probe\n", "", nil
	})
	client := releasesServer(t, `[{"name":"v16.10.0"}]`)

	report := buildDoctorReport(context.Background(), exec, client)

	if report.Healthy {
		t.Error("Healthy = true without docker")
	}
	for _, name := range []string{"Docker client", "Docker daemon", "Docker Compose v2"} {
		if check := findCheck(t, report, name); check.Status != checkError {
			t.Errorf("%s status = %q, want error", name, check.Status)
		}
	}
}

func TestReleaseCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	client := releases.NewClient()
	client.BaseURL = srv.URL

	check := releaseCheck(context.Background(), client)
	if check.Status != checkWarning {
		t.Errorf("status = %q, want warning", check.Status)
	}
	if !strings.Contains(check.Message, releases.DefaultVersion) {
		t.Errorf("message does not name the fallback version: %q", check.Message)
	}
}
