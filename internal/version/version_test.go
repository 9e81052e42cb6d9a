package version

import (
	"runtime"
	"testing"
)

func setBuildIdentity(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = origVersion, origCommit, origDate })
	Version, Commit, Date = version, commit, date
}

func TestGetInfo(t *testing.T) {
	setBuildIdentity(t, "1.2.0", "abc123def4567890", "2026-08-21T10:00:00Z")

	info := GetInfo()

	if info.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", info.Version)
	}
	if info.Commit != "abc123de" {
		t.Errorf("Commit = %q, want the 8-character prefix abc123de", info.Commit)
	}
	if info.Date != "2026-08-21T10:00:00Z" {
		t.Errorf("Date = %q", info.Date)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123def456", "abc123de"},
		{"abc123de", "abc123de"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortCommit(tt.in); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.0",
		Commit:    "abc123de",
		Date:      "2026-08-21",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	want := "erpstack 1.2.0 (commit abc123de, built 2026-08-21) go1.24.6 linux/amd64"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInfoShort(t *testing.T) {
	if got := (Info{Version: "1.2.0-rc1"}).Short(); got != "1.2.0-rc1" {
		t.Errorf("Short() = %q, want 1.2.0-rc1", got)
	}
}

func TestUserAgent(t *testing.T) {
	setBuildIdentity(t, "1.2.0", "none", "unknown")

	if got := UserAgent(); got != "erpstack/1.2.0" {
		t.Errorf("UserAgent() = %q, want erpstack/1.2.0", got)
	}
}

func TestDevDefaults(t *testing.T) {
	info := GetInfo()

	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("dev build must still carry identity defaults, got %+v", info)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("runtime fields must always be populated, got %+v", info)
	}
}
