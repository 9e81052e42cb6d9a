package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/releases"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a sample deployment configuration",
	Long: `Write an annotated sample configuration file for unattended deployments.
The default file name is deploy.yml; edit the placeholders, then deploy
with 'erpstack --config deploy.yml'.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

const sampleConfigTemplate = `# erpstack deployment configuration.
# Deploy with: erpstack --config deploy.yml

# local:      this machine, plain HTTP on http_port
# production: this machine, HTTPS with Let's Encrypt certificates
# remote:     another host over SSH, HTTPS with Let's Encrypt certificates
mode: local

# The site name doubles as the hostname the stack answers on.
# Use a real domain for production and remote modes.
site_name: mysite.localhost

# Published ERPNext release tag, see https://github.com/frappe/erpnext/tags
erpnext_version: %s

# mariadb (default) or postgres
db_type: mariadb

# Local mode only: the published HTTP port (1024-65535).
http_port: 8080

# Production and remote modes only.
# domain: erp.example.com
# letsencrypt_email: ops@example.com

# Remote mode only.
# ssh:
#   host: erp.example.com
#   user: root
#   port: 22
#   key_path: ~/.ssh/id_ed25519

# Secrets, at least 6 characters each. CHANGE THESE.
db_password: change-me-now
admin_password: change-me-now

# Optional apps installed into the site after deployment.
# extra_apps:
#   - hrms
#   - payments

# Optional outgoing mail, applied to the site configuration.
# smtp:
#   host: smtp.example.com
#   port: 587
#   user: erp@example.com
#   password: app-password
#   use_tls: true

# Optional S3-compatible backup storage.
# backup:
#   s3_endpoint: https://s3.example.com
#   s3_bucket: erp-backups
#   s3_access_key: access-key
#   s3_secret_key: secret-key
`

// sampleConfig renders the annotated sample with the pinned known-good
// release as the version placeholder.
func sampleConfig() string {
	return fmt.Sprintf(sampleConfigTemplate, releases.DefaultVersion)
}

func runInit(cmd *cobra.Command, args []string) error {
	setupLogging()
	printer := newPrinter()

	path := "deploy.yml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists, pass --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(sampleConfig()), 0o600); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	printer.Success("Wrote %s", path)
	printer.Detail("Edit the placeholders, then deploy with: erpstack --config %s", path)
	return nil
}
