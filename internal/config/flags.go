package config

import (
	"strings"

	"github.com/erpstack/erpstack/internal/errors"
)

// Flags carries raw command-line values for the unattended flag route.
// Empty string means the flag was not provided.
type Flags struct {
	Mode          string
	SiteName      string
	Version       string
	DBType        string
	HTTPPort      string
	DBPassword    string
	AdminPassword string

	Domain           string
	LetsEncryptEmail string
	Apps             string

	SSHHost string
	SSHUser string
	SSHPort string
	SSHKey  string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPNoTLS    bool

	BackupS3Endpoint  string
	BackupS3Bucket    string
	BackupS3AccessKey string
	BackupS3SecretKey string
}

// requiredFlagNames is the minimal set that makes the flag route complete.
var requiredFlagNames = []string{"mode", "site-name", "version", "db-password", "admin-password"}

// Any reports whether at least one unattended construction flag was given.
func (f Flags) Any() bool {
	for _, v := range []string{
		f.Mode, f.SiteName, f.Version, f.DBType, f.HTTPPort,
		f.DBPassword, f.AdminPassword, f.Domain, f.LetsEncryptEmail, f.Apps,
		f.SSHHost, f.SSHUser, f.SSHPort, f.SSHKey,
		f.SMTPHost, f.SMTPPort, f.SMTPUser, f.SMTPPassword,
		f.BackupS3Endpoint, f.BackupS3Bucket, f.BackupS3AccessKey, f.BackupS3SecretKey,
	} {
		if v != "" {
			return true
		}
	}
	return f.SMTPNoTLS
}

// MissingRequired lists required flags absent from a partial set.
func (f Flags) MissingRequired() []string {
	values := []string{f.Mode, f.SiteName, f.Version, f.DBPassword, f.AdminPassword}
	var missing []string
	for i, v := range values {
		if v == "" {
			missing = append(missing, requiredFlagNames[i])
		}
	}
	return missing
}

// FromFlags builds and validates a configuration from a complete flag set.
func FromFlags(f Flags) (Config, error) {
	cfg := Config{
		Mode:             Mode(f.Mode),
		SiteName:         f.SiteName,
		Version:          f.Version,
		DBType:           DBType(f.DBType),
		Domain:           f.Domain,
		LetsEncryptEmail: f.LetsEncryptEmail,
		DBPassword:       f.DBPassword,
		AdminPassword:    f.AdminPassword,
		ExtraApps:        SplitApps(f.Apps),
	}

	var err error
	if cfg.HTTPPort, err = portValue("http port", f.HTTPPort, ValidateHTTPPort); err != nil {
		return Config{}, err
	}

	cfg.SSH = SSHConfig{
		Host:    f.SSHHost,
		User:    f.SSHUser,
		KeyPath: f.SSHKey,
	}
	if cfg.SSH.Port, err = portValue("ssh port", f.SSHPort, ValidateSSHPort); err != nil {
		return Config{}, err
	}

	if f.SMTPHost != "" {
		smtp := &SMTPConfig{
			Host:     f.SMTPHost,
			User:     f.SMTPUser,
			Password: f.SMTPPassword,
			UseTLS:   !f.SMTPNoTLS,
		}
		if smtp.Port, err = portValue("smtp port", f.SMTPPort, ValidateSSHPort); err != nil {
			return Config{}, err
		}
		cfg.SMTP = smtp
	}

	if f.BackupS3Endpoint != "" || f.BackupS3Bucket != "" ||
		f.BackupS3AccessKey != "" || f.BackupS3SecretKey != "" {
		cfg.Backup = &BackupConfig{
			S3Endpoint:  f.BackupS3Endpoint,
			S3Bucket:    f.BackupS3Bucket,
			S3AccessKey: f.BackupS3AccessKey,
			S3SecretKey: f.BackupS3SecretKey,
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SplitApps splits a comma-separated app list, dropping empty entries.
func SplitApps(s string) []string {
	if s == "" {
		return nil
	}
	var apps []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			apps = append(apps, a)
		}
	}
	return apps
}

// portValue parses an optional port flag with the given validator.
// Empty input stays zero so normalize can apply the documented default.
func portValue(field, raw string, validate func(string) error) (int, error) {
	if raw == "" {
		return 0, nil
	}
	if err := validate(raw); err != nil {
		return 0, errors.NewValidationError(field, err.Error())
	}
	n, err := canonicalPort(raw)
	if err != nil {
		return 0, errors.NewValidationError(field, err.Error())
	}
	return n, nil
}
