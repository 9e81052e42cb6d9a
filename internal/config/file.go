package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/erpstack/erpstack/internal/errors"
)

// fileConfig mirrors the YAML layout of a deployment file. Optional groups
// use pointers so an absent section stays distinguishable from an empty one.
type fileConfig struct {
	Mode             string     `mapstructure:"mode"`
	SiteName         string     `mapstructure:"site_name"`
	ErpnextVersion   string     `mapstructure:"erpnext_version"`
	DBType           string     `mapstructure:"db_type"`
	HTTPPort         int        `mapstructure:"http_port"`
	DBPassword       string     `mapstructure:"db_password"`
	AdminPassword    string     `mapstructure:"admin_password"`
	Domain           string     `mapstructure:"domain"`
	LetsEncryptEmail string     `mapstructure:"letsencrypt_email"`
	ExtraApps        []string   `mapstructure:"extra_apps"`
	SSH              SSHConfig  `mapstructure:"ssh"`
	SMTP             *fileSMTP  `mapstructure:"smtp"`
	Backup           *fileBackup `mapstructure:"backup"`
}

type fileSMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	UseTLS   *bool  `mapstructure:"use_tls"`
}

type fileBackup struct {
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

// FromFile loads, defaults and validates a deployment configuration from a
// YAML file. Errors are fatal: the file route never falls back to prompts.
func FromFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigFileNotFound,
			fmt.Sprintf("config file not found: %s", path), err).
			WithSuggestion("Run 'erpstack init' to generate a sample file")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.NewConfigFileError(path, err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, errors.NewConfigFileError(path, err)
	}

	if missing := missingFileKeys(fc); len(missing) > 0 {
		return Config{}, errors.New(errors.ErrCodeConfigFileInvalid,
			fmt.Sprintf("config file %s is missing required keys: %s", path, strings.Join(missing, ", "))).
			WithSuggestion("Run 'erpstack init' to see a complete sample")
	}

	if fc.Mode == "" {
		fc.Mode = string(ModeLocal)
	}

	cfg := Config{
		Mode:             Mode(fc.Mode),
		SiteName:         fc.SiteName,
		Version:          fc.ErpnextVersion,
		DBType:           DBType(fc.DBType),
		HTTPPort:         fc.HTTPPort,
		Domain:           fc.Domain,
		LetsEncryptEmail: fc.LetsEncryptEmail,
		SSH:              fc.SSH,
		DBPassword:       fc.DBPassword,
		AdminPassword:    fc.AdminPassword,
		ExtraApps:        fc.ExtraApps,
	}

	if fc.SMTP != nil {
		useTLS := true
		if fc.SMTP.UseTLS != nil {
			useTLS = *fc.SMTP.UseTLS
		}
		cfg.SMTP = &SMTPConfig{
			Host:     fc.SMTP.Host,
			Port:     fc.SMTP.Port,
			User:     fc.SMTP.User,
			Password: fc.SMTP.Password,
			UseTLS:   useTLS,
		}
	}
	if fc.Backup != nil {
		cfg.Backup = &BackupConfig{
			S3Endpoint:  fc.Backup.S3Endpoint,
			S3Bucket:    fc.Backup.S3Bucket,
			S3AccessKey: fc.Backup.S3AccessKey,
			S3SecretKey: fc.Backup.S3SecretKey,
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func missingFileKeys(fc fileConfig) []string {
	var missing []string
	if fc.SiteName == "" {
		missing = append(missing, "site_name")
	}
	if fc.ErpnextVersion == "" {
		missing = append(missing, "erpnext_version")
	}
	if fc.DBPassword == "" {
		missing = append(missing, "db_password")
	}
	if fc.AdminPassword == "" {
		missing = append(missing, "admin_password")
	}
	return missing
}
