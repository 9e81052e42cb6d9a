package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/erpstack/erpstack/internal/apps"
	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/releases"
)

// ErrDeclined is returned when the operator reviews the summary and
// decides not to deploy. Callers treat it as a clean exit, not a
// failure.
var ErrDeclined = errors.New("configuration declined")

// maskedSecret is what summary panels show in place of a password.
const maskedSecret = "••••••••"

// Wizard collects a full deployment configuration interactively.
type Wizard struct {
	printer  *Printer
	releases *releases.Client
}

// NewWizard creates a wizard printing through p and resolving release
// tags through client.
func NewWizard(p *Printer, client *releases.Client) *Wizard {
	return &Wizard{printer: p, releases: client}
}

// Run walks the operator through every configuration field, shows a
// summary with secrets masked, and returns the confirmed configuration.
// Declining the summary twice returns ErrDeclined.
func (w *Wizard) Run(ctx context.Context) (config.Config, error) {
	for {
		cfg, err := w.collect(ctx)
		if err != nil {
			return config.Config{}, err
		}

		w.printer.Blank()
		w.showSummary(cfg)

		proceed, err := AskConfirm("Deploy with this configuration?", true)
		if err != nil {
			return config.Config{}, err
		}
		if proceed {
			return cfg, nil
		}

		again, err := AskConfirm("Start over and re-enter the values?", true)
		if err != nil {
			return config.Config{}, err
		}
		if !again {
			w.printer.Warn("Deployment cancelled")
			return config.Config{}, ErrDeclined
		}
		w.printer.Blank()
	}
}

func (w *Wizard) collect(ctx context.Context) (config.Config, error) {
	var cfg config.Config

	modeValue, err := AskSelect("Deployment target", "Where should ERPNext run?", []Option{
		{Value: "local", Label: "Local (evaluate on this machine, plain HTTP)"},
		{Value: "production", Label: "Production (this server, HTTPS via Let's Encrypt)"},
		{Value: "remote", Label: "Remote (another server over SSH)"},
	}, string(config.ModeLocal))
	if err != nil {
		return cfg, err
	}
	mode, err := config.ParseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode

	if mode == config.ModeRemote {
		if cfg.SSH, err = w.collectSSH(); err != nil {
			return cfg, err
		}
	}

	defaultSite := "mysite.localhost"
	siteHint := "Hostname the stack answers to, for example erp.localhost."
	if mode != config.ModeLocal {
		defaultSite = "erp.example.com"
		siteHint = "Public hostname the stack answers to, for example erp.example.com."
	}
	if cfg.SiteName, err = AskString("Site name", siteHint, "", defaultSite, config.ValidateSiteName); err != nil {
		return cfg, err
	}

	if cfg.Version, err = w.collectVersion(ctx); err != nil {
		return cfg, err
	}

	dbValue, err := AskSelect("Database engine", "MariaDB is the engine most ERPNext deployments run on.", []Option{
		{Value: "mariadb", Label: "MariaDB"},
		{Value: "postgres", Label: "PostgreSQL"},
	}, string(config.DBMariaDB))
	if err != nil {
		return cfg, err
	}
	if cfg.DBType, err = config.ParseDBType(dbValue); err != nil {
		return cfg, err
	}

	if mode == config.ModeLocal {
		portStr, err := AskString("HTTP port", "Local port the web frontend publishes on.", "", "8080", config.ValidateHTTPPort)
		if err != nil {
			return cfg, err
		}
		cfg.HTTPPort, _ = strconv.Atoi(portStr)
	} else {
		if cfg.Domain, err = AskString("Domain", "Public DNS name pointing at this deployment.", "erp.example.com", "", config.ValidateDomain); err != nil {
			return cfg, err
		}
		if cfg.LetsEncryptEmail, err = AskString("Let's Encrypt email", "Certificate expiry notices go to this address.", "ops@example.com", "", config.ValidateEmail); err != nil {
			return cfg, err
		}
	}

	if cfg.DBPassword, err = AskPassword(w.printer, "Database password", config.MinPasswordLength); err != nil {
		return cfg, err
	}
	if cfg.AdminPassword, err = AskPassword(w.printer, "Administrator password", config.MinPasswordLength); err != nil {
		return cfg, err
	}

	if cfg.ExtraApps, err = w.collectApps(); err != nil {
		return cfg, err
	}

	if mode != config.ModeLocal {
		if cfg.SMTP, err = w.collectSMTP(); err != nil {
			return cfg, err
		}
		if cfg.Backup, err = w.collectBackup(); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (w *Wizard) collectSSH() (config.SSHConfig, error) {
	var ssh config.SSHConfig
	var err error

	if ssh.Host, err = AskString("SSH host", "Hostname or IP address of the target server.", "server.example.com", "", required("host")); err != nil {
		return ssh, err
	}
	if ssh.User, err = AskString("SSH user", "Account that can run docker on the target.", "", config.DefaultSSHUser, required("user")); err != nil {
		return ssh, err
	}

	portStr, err := AskString("SSH port", "", "", strconv.Itoa(config.DefaultSSHPort), config.ValidateSSHPort)
	if err != nil {
		return ssh, err
	}
	ssh.Port, _ = strconv.Atoi(portStr)

	if ssh.KeyPath, err = AskString("SSH key path", "Private key for the connection. Leave empty to use the agent.", "~/.ssh/id_ed25519", "", nil); err != nil {
		return ssh, err
	}
	return ssh, nil
}

func (w *Wizard) collectVersion(ctx context.Context) (string, error) {
	spinner := NewSpinner(w.printer.Writer(), "Fetching available ERPNext releases")
	spinner.Start()
	versions, err := w.releases.FetchVersions(ctx)
	spinner.Stop()

	if err != nil || len(versions) == 0 {
		w.printer.Warn("Could not fetch the release list, enter a tag manually")
		return AskString("ERPNext version", "Release tag to deploy, for example "+releases.DefaultVersion+".", "", releases.DefaultVersion, config.ValidateVersion)
	}

	w.printer.Success("Loaded %d stable releases", len(versions))
	options := make([]Option, len(versions))
	for i, v := range versions {
		options[i] = Option{Value: v, Label: v}
	}
	return AskSelect("ERPNext version", "Newest release first.", options, versions[0])
}

func (w *Wizard) collectApps() ([]string, error) {
	catalog := apps.Catalog()
	options := make([]Option, len(catalog))
	for i, a := range catalog {
		options[i] = Option{Value: a.Name, Label: fmt.Sprintf("%s (%s)", a.Title, a.Description)}
	}
	return AskMultiSelect("Optional apps", "Installed into the site after it is created. Space selects, enter confirms.", options)
}

func (w *Wizard) collectSMTP() (*config.SMTPConfig, error) {
	configure, err := AskConfirm("Configure outgoing email (SMTP)?", true)
	if err != nil {
		return nil, err
	}
	if !configure {
		return nil, nil
	}

	var smtp config.SMTPConfig
	if smtp.Host, err = AskString("SMTP host", "Mail relay the site sends through.", "smtp.example.com", "", required("host")); err != nil {
		return nil, err
	}

	portStr, err := AskString("SMTP port", "", "", strconv.Itoa(config.DefaultSMTPPort), config.ValidateSSHPort)
	if err != nil {
		return nil, err
	}
	smtp.Port, _ = strconv.Atoi(portStr)

	if smtp.User, err = AskString("SMTP user", "Login for the relay. Leave empty for unauthenticated relays.", "", "", nil); err != nil {
		return nil, err
	}
	if smtp.Password, err = AskPassword(w.printer, "SMTP password", 1); err != nil {
		return nil, err
	}
	if smtp.UseTLS, err = AskConfirm("Use TLS for SMTP?", true); err != nil {
		return nil, err
	}
	return &smtp, nil
}

func (w *Wizard) collectBackup() (*config.BackupConfig, error) {
	configure, err := AskConfirm("Configure S3 backups?", true)
	if err != nil {
		return nil, err
	}
	if !configure {
		return nil, nil
	}

	var backup config.BackupConfig
	if backup.S3Endpoint, err = AskString("S3 endpoint", "S3-compatible storage endpoint.", "s3.amazonaws.com", "", required("endpoint")); err != nil {
		return nil, err
	}
	if backup.S3Bucket, err = AskString("S3 bucket", "", "", "", required("bucket")); err != nil {
		return nil, err
	}
	if backup.S3AccessKey, err = AskString("S3 access key", "", "", "", required("access key")); err != nil {
		return nil, err
	}
	if backup.S3SecretKey, err = AskPassword(w.printer, "S3 secret key", 1); err != nil {
		return nil, err
	}
	return &backup, nil
}

func (w *Wizard) showSummary(cfg config.Config) {
	w.printer.KeyValues("Configuration summary", SummaryRows(cfg))
}

// SummaryRows builds the labeled configuration rows shown before a
// deployment, with both secrets masked. The wizard and the pipeline's
// configuration stage render the same rows.
func SummaryRows(cfg config.Config) []KV {
	rows := []KV{
		{Key: "Deployment target", Value: string(cfg.Mode)},
		{Key: "Site name", Value: cfg.SiteName},
		{Key: "ERPNext version", Value: cfg.Version},
		{Key: "Database", Value: string(cfg.DBType)},
	}

	if cfg.Mode == config.ModeLocal {
		rows = append(rows, KV{Key: "HTTP port", Value: strconv.Itoa(cfg.HTTPPort)})
	} else {
		rows = append(rows,
			KV{Key: "Domain", Value: cfg.Domain},
			KV{Key: "Let's Encrypt email", Value: cfg.LetsEncryptEmail},
		)
	}
	if cfg.Mode == config.ModeRemote {
		target := cfg.SSH.Host
		if cfg.SSH.User != "" {
			target = cfg.SSH.User + "@" + cfg.SSH.Host
		}
		rows = append(rows, KV{Key: "SSH target", Value: target})
	}

	rows = append(rows,
		KV{Key: "Database password", Value: maskedSecret},
		KV{Key: "Administrator password", Value: maskedSecret},
	)

	appsDisplay := "none"
	if len(cfg.ExtraApps) > 0 {
		appsDisplay = strings.Join(cfg.ExtraApps, ", ")
	}
	rows = append(rows, KV{Key: "Optional apps", Value: appsDisplay})

	if cfg.SMTP != nil {
		rows = append(rows, KV{Key: "SMTP host", Value: cfg.SMTP.Host})
	}
	if cfg.Backup != nil {
		rows = append(rows, KV{Key: "Backup endpoint", Value: cfg.Backup.S3Endpoint})
	}

	return rows
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
