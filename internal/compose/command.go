// Package compose derives container-composition commands from a deployment
// configuration. The derivation is pure: equal configurations always yield
// the same overlay files in the same order.
package compose

import (
	"strings"

	"github.com/erpstack/erpstack/internal/config"
)

// Overlay files relative to the project checkout, applied on top of the
// base file in a fixed order: database, cache, then proxy topology.
const (
	baseFile        = "compose.yaml"
	mariadbOverlay  = "overrides/compose.mariadb.yaml"
	postgresOverlay = "overrides/compose.postgres.yaml"
	redisOverlay    = "overrides/compose.redis.yaml"
	noproxyOverlay  = "overrides/compose.noproxy.yaml"
	httpsOverlay    = "overrides/compose.https.yaml"
)

// Files returns the ordered list of composition files for the deployment:
// the base file, the database overlay, the cache overlay, and exactly one
// of the proxy overlays.
func Files(cfg config.Config) []string {
	files := make([]string, 0, 4)
	files = append(files, baseFile)

	switch cfg.DBType {
	case config.DBPostgres:
		files = append(files, postgresOverlay)
	default:
		files = append(files, mariadbOverlay)
	}

	files = append(files, redisOverlay)

	if cfg.TLS() {
		files = append(files, httpsOverlay)
	} else {
		files = append(files, noproxyOverlay)
	}

	return files
}

// Command renders the docker compose invocation with every overlay flag in
// order. The caller prefixes the working-directory change.
func Command(cfg config.Config) string {
	var b strings.Builder
	b.WriteString("docker compose")
	for _, f := range Files(cfg) {
		b.WriteString(" -f ")
		b.WriteString(f)
	}
	return b.String()
}
