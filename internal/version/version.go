package version

import (
	"fmt"
	"runtime"
)

// Build identity, injected by the release build through -ldflags. A
// plain `go build` carries the dev defaults.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build identity reported by the version command. The tags
// feed the machine-readable output.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetInfo assembles the Info for the running binary. The commit is cut to
// the 8-character prefix operators paste into issue reports.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    shortCommit(Commit),
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the verbose one-line form.
func (i Info) String() string {
	return fmt.Sprintf("erpstack %s (commit %s, built %s) %s %s",
		i.Version, i.Commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns only the version number, for banners.
func (i Info) Short() string {
	return i.Version
}

// UserAgent identifies this build on outbound HTTP requests.
func UserAgent() string {
	return "erpstack/" + Version
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
