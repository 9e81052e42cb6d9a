// Package envfile renders the deployment environment descriptor and places
// it in the project checkout. Rendering is pure; placement goes through the
// executor so local and remote deployments share the same code path.
package envfile

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/releases"
)

// Name is the descriptor file name inside the project checkout.
const Name = ".env"

// placeholderEmail keeps the proxy satisfied when no TLS certificate will
// ever be requested.
const placeholderEmail = "mail@example.com"

// Render builds the descriptor content for the configuration. User values
// land in the file verbatim; nothing here passes through a shell.
func Render(cfg config.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ERPNEXT_VERSION=%s\n", cfg.Version)
	fmt.Fprintf(&b, "FRAPPE_VERSION=%s\n", releases.BranchLabel(cfg.Version))
	fmt.Fprintf(&b, "DB_PASSWORD=%s\n", cfg.DBPassword)
	fmt.Fprintf(&b, "FRAPPE_SITE_NAME_HEADER=%s\n", cfg.SiteName)

	if cfg.Mode == config.ModeLocal {
		fmt.Fprintf(&b, "HTTP_PUBLISH_PORT=%d\n", cfg.HTTPPort)
		fmt.Fprintf(&b, "LETSENCRYPT_EMAIL=%s\n", placeholderEmail)
	} else {
		fmt.Fprintf(&b, "LETSENCRYPT_EMAIL=%s\n", cfg.LetsEncryptEmail)
		fmt.Fprintf(&b, "SITES=`%s`\n", cfg.Domain)
	}

	return b.String()
}

// Parse extracts KEY=VALUE pairs from descriptor content, as read back by
// the status and upgrade commands. Comment lines are skipped; values are
// trimmed of whitespace and surrounding double quotes.
func Parse(content string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return values
}

// Materialize renders the descriptor and places it at <projectDir>/.env on
// the execution target. The content is staged in a local temp file first;
// the executor's Upload provides atomic placement.
func Materialize(ctx context.Context, exec executor.Executor, cfg config.Config, projectDir string) error {
	tmp, err := os.CreateTemp("", "erpstack-env-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeEnvMaterialize, "cannot stage environment file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(Render(cfg)); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeEnvMaterialize, "cannot write environment file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeEnvMaterialize, "cannot close environment file", err)
	}

	return exec.Upload(ctx, tmpName, path.Join(projectDir, Name))
}
