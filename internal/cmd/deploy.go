package cmd

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/pipeline"
	"github.com/erpstack/erpstack/internal/releases"
	"github.com/erpstack/erpstack/internal/tui"
	"github.com/erpstack/erpstack/internal/ux"
	"github.com/erpstack/erpstack/internal/version"
)

var (
	flagConfigPath string

	flagMode          string
	flagSiteName      string
	flagVersion       string
	flagDBType        string
	flagHTTPPort      string
	flagDBPassword    string
	flagAdminPassword string

	flagDomain           string
	flagLetsEncryptEmail string
	flagApps             string

	flagSSHHost string
	flagSSHUser string
	flagSSHPort string
	flagSSHKey  string

	flagSMTPHost     string
	flagSMTPPort     string
	flagSMTPUser     string
	flagSMTPPassword string
	flagSMTPNoTLS    bool

	flagBackupS3Endpoint  string
	flagBackupS3Bucket    string
	flagBackupS3AccessKey string
	flagBackupS3SecretKey string
)

func init() {
	f := rootCmd.Flags()

	f.StringVar(&flagConfigPath, "config", "", "deploy from a YAML configuration file")

	f.StringVar(&flagMode, "mode", "", "deployment mode (local, production, remote)")
	f.StringVar(&flagSiteName, "site-name", "", "ERPNext site name")
	f.StringVar(&flagVersion, "version", "", "ERPNext version tag (v<major>.<minor>.<patch>)")
	f.StringVar(&flagDBType, "db-type", "", "database engine (mariadb, postgres)")
	f.StringVar(&flagHTTPPort, "http-port", "", "published HTTP port, local mode")
	f.StringVar(&flagDBPassword, "db-password", "", "database root password")
	f.StringVar(&flagAdminPassword, "admin-password", "", "site administrator password")

	f.StringVar(&flagDomain, "domain", "", "public domain, production and remote modes")
	f.StringVar(&flagLetsEncryptEmail, "letsencrypt-email", "", "certificate contact email")
	f.StringVar(&flagApps, "apps", "", "comma-separated optional apps to install")

	f.StringVar(&flagSSHHost, "ssh-host", "", "remote host, remote mode")
	f.StringVar(&flagSSHUser, "ssh-user", "", "remote user (default root)")
	f.StringVar(&flagSSHPort, "ssh-port", "", "remote SSH port (default 22)")
	f.StringVar(&flagSSHKey, "ssh-key", "", "SSH private key path")

	f.StringVar(&flagSMTPHost, "smtp-host", "", "outgoing mail server")
	f.StringVar(&flagSMTPPort, "smtp-port", "", "outgoing mail port (default 587)")
	f.StringVar(&flagSMTPUser, "smtp-user", "", "outgoing mail login")
	f.StringVar(&flagSMTPPassword, "smtp-password", "", "outgoing mail password")
	f.BoolVar(&flagSMTPNoTLS, "smtp-no-tls", false, "disable TLS for outgoing mail")

	f.StringVar(&flagBackupS3Endpoint, "backup-s3-endpoint", "", "S3-compatible backup endpoint")
	f.StringVar(&flagBackupS3Bucket, "backup-s3-bucket", "", "backup bucket name")
	f.StringVar(&flagBackupS3AccessKey, "backup-s3-access-key", "", "backup access key")
	f.StringVar(&flagBackupS3SecretKey, "backup-s3-secret-key", "", "backup secret key")
}

// gatherFlags collects the raw unattended flag values.
func gatherFlags() config.Flags {
	return config.Flags{
		Mode:          flagMode,
		SiteName:      flagSiteName,
		Version:       flagVersion,
		DBType:        flagDBType,
		HTTPPort:      flagHTTPPort,
		DBPassword:    flagDBPassword,
		AdminPassword: flagAdminPassword,

		Domain:           flagDomain,
		LetsEncryptEmail: flagLetsEncryptEmail,
		Apps:             flagApps,

		SSHHost: flagSSHHost,
		SSHUser: flagSSHUser,
		SSHPort: flagSSHPort,
		SSHKey:  flagSSHKey,

		SMTPHost:     flagSMTPHost,
		SMTPPort:     flagSMTPPort,
		SMTPUser:     flagSMTPUser,
		SMTPPassword: flagSMTPPassword,
		SMTPNoTLS:    flagSMTPNoTLS,

		BackupS3Endpoint:  flagBackupS3Endpoint,
		BackupS3Bucket:    flagBackupS3Bucket,
		BackupS3AccessKey: flagBackupS3AccessKey,
		BackupS3SecretKey: flagBackupS3SecretKey,
	}
}

// deployExecutor builds the command executor for the configured target.
func deployExecutor(cfg config.Config) executor.Executor {
	if cfg.Remote() {
		return executor.NewSSH(cfg.SSH.Host, cfg.SSH.User,
			strconv.Itoa(cfg.SSH.Port), cfg.SSH.KeyPath)
	}
	return executor.NewLocal()
}

func runDeploy(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := cmd.Context()
	printer := newPrinter()
	printer.Banner(version.GetInfo().Short())

	var prompt config.PromptFunc
	if tui.ShouldPrompt() {
		prompt = func() (config.Config, error) {
			wizard := tui.NewWizard(printer, releases.NewClient())
			return wizard.Run(ctx)
		}
	}

	cfg, route, err := config.Resolve(config.Sources{
		ConfigPath: flagConfigPath,
		Flags:      gatherFlags(),
		Prompt:     prompt,
	})
	if err != nil {
		if errors.Is(err, tui.ErrDeclined) {
			printer.Info("Nothing deployed")
			return nil
		}
		return err
	}

	opts := pipeline.Options{
		Printer:    printer,
		Unattended: route.Unattended(),
	}
	if !route.Unattended() {
		opts.Confirm = func(question string) (bool, error) {
			return tui.AskConfirm(question, true)
		}
	}

	p := pipeline.New(cfg, deployExecutor(cfg), opts)
	if err := p.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return ux.EnhanceError(err)
	}
	return nil
}
