// Package config owns the deployment configuration: the immutable value
// object every stage reads, the validators shared by all input routes, and
// the resolver that builds it from a YAML file, command-line flags, or
// interactive answers with strict precedence.
package config

import (
	"fmt"

	"github.com/erpstack/erpstack/internal/errors"
)

// Mode selects the deployment target topology.
type Mode string

const (
	// ModeLocal deploys on this machine without a TLS proxy.
	ModeLocal Mode = "local"
	// ModeProduction deploys on this machine behind the HTTPS proxy.
	ModeProduction Mode = "production"
	// ModeRemote deploys on another host over SSH, behind the HTTPS proxy.
	ModeRemote Mode = "remote"
)

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeProduction, ModeRemote:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected local, production or remote)", s)
}

// DBType selects the database engine overlay.
type DBType string

const (
	DBMariaDB  DBType = "mariadb"
	DBPostgres DBType = "postgres"
)

// ParseDBType parses a database type string.
func ParseDBType(s string) (DBType, error) {
	switch DBType(s) {
	case DBMariaDB, DBPostgres:
		return DBType(s), nil
	}
	return "", fmt.Errorf("unknown database type %q (expected mariadb or postgres)", s)
}

// SSHConfig holds the remote target coordinates.
type SSHConfig struct {
	Host    string `mapstructure:"host"`
	User    string `mapstructure:"user"`
	Port    int    `mapstructure:"port"`
	KeyPath string `mapstructure:"key_path"`
}

// SMTPConfig holds outgoing mail settings applied to the site.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// BackupConfig holds S3-compatible backup storage settings.
type BackupConfig struct {
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

// Config is the resolved deployment configuration. It is constructed by one
// of the resolver routes, validated once, and read-only afterwards: stages
// receive it by value and keep run-time results in their own state.
type Config struct {
	Mode     Mode
	SiteName string
	Version  string
	DBType   DBType

	// HTTPPort is the published HTTP port, local mode only.
	HTTPPort int
	// Domain and LetsEncryptEmail drive the HTTPS proxy, production and
	// remote modes only.
	Domain           string
	LetsEncryptEmail string
	// SSH is populated in remote mode only.
	SSH SSHConfig

	DBPassword    string
	AdminPassword string

	// Optional feature groups: nil means fully absent.
	ExtraApps []string
	SMTP      *SMTPConfig
	Backup    *BackupConfig
}

// Defaults used when a route leaves a field unset.
const (
	DefaultDBType   = DBMariaDB
	DefaultHTTPPort = 8080
	DefaultSSHUser  = "root"
	DefaultSSHPort  = 22
	DefaultSMTPPort = 587
)

// normalize applies documented defaults and zeroes every field that has no
// meaning for the chosen mode, so equal deployments compare equal regardless
// of the route that built them.
func (c *Config) normalize() {
	if c.DBType == "" {
		c.DBType = DefaultDBType
	}

	switch c.Mode {
	case ModeLocal:
		if c.HTTPPort == 0 {
			c.HTTPPort = DefaultHTTPPort
		}
		c.Domain = ""
		c.LetsEncryptEmail = ""
		c.SSH = SSHConfig{}
	case ModeProduction:
		c.HTTPPort = 0
		c.SSH = SSHConfig{}
	case ModeRemote:
		c.HTTPPort = 0
		if c.SSH.User == "" {
			c.SSH.User = DefaultSSHUser
		}
		if c.SSH.Port == 0 {
			c.SSH.Port = DefaultSSHPort
		}
	}

	if c.SMTP != nil && c.SMTP.Port == 0 {
		c.SMTP.Port = DefaultSMTPPort
	}
	if len(c.ExtraApps) == 0 {
		c.ExtraApps = nil
	}
}

// Validate checks the full rule set for the chosen mode. The same rules
// apply no matter which route produced the configuration.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return errors.NewValidationError("mode", err.Error())
	}
	if err := ValidateSiteName(c.SiteName); err != nil {
		return errors.NewValidationError("site name", err.Error())
	}
	if err := ValidateVersion(c.Version); err != nil {
		return errors.NewValidationError("version", err.Error())
	}
	if _, err := ParseDBType(string(c.DBType)); err != nil {
		return errors.NewValidationError("database type", err.Error())
	}
	if err := ValidatePassword(c.DBPassword); err != nil {
		return errors.NewValidationError("database password", err.Error())
	}
	if err := ValidatePassword(c.AdminPassword); err != nil {
		return errors.NewValidationError("administrator password", err.Error())
	}

	switch c.Mode {
	case ModeLocal:
		if err := validHTTPPort(c.HTTPPort); err != nil {
			return errors.NewValidationError("http port", err.Error())
		}
	case ModeProduction, ModeRemote:
		if err := ValidateDomain(c.Domain); err != nil {
			return errors.NewValidationError("domain", err.Error())
		}
		if err := ValidateEmail(c.LetsEncryptEmail); err != nil {
			return errors.NewValidationError("letsencrypt email", err.Error())
		}
	}

	if c.Mode == ModeRemote {
		if c.SSH.Host == "" {
			return errors.NewValidationError("ssh host", "must not be empty")
		}
		if err := validSSHPort(c.SSH.Port); err != nil {
			return errors.NewValidationError("ssh port", err.Error())
		}
	}

	if c.SMTP != nil {
		if c.SMTP.Host == "" {
			return errors.NewValidationError("smtp host", "must not be empty")
		}
		if err := validSSHPort(c.SMTP.Port); err != nil {
			return errors.NewValidationError("smtp port", err.Error())
		}
	}

	if c.Backup != nil {
		if c.Backup.S3Endpoint == "" || c.Backup.S3Bucket == "" ||
			c.Backup.S3AccessKey == "" || c.Backup.S3SecretKey == "" {
			return errors.NewValidationError("backup settings",
				"s3_endpoint, s3_bucket, s3_access_key and s3_secret_key are all required")
		}
	}

	return nil
}

// Remote reports whether commands run on another host.
func (c Config) Remote() bool {
	return c.Mode == ModeRemote
}

// TLS reports whether the deployment sits behind the HTTPS proxy.
func (c Config) TLS() bool {
	return c.Mode != ModeLocal
}

// SiteURL returns the address the finished deployment answers on.
func (c Config) SiteURL() string {
	if c.Mode == ModeLocal {
		return fmt.Sprintf("http://%s:%d", c.SiteName, c.HTTPPort)
	}
	return fmt.Sprintf("https://%s", c.Domain)
}
