package config

import (
	"testing"
)

func validLocal() Config {
	return Config{
		Mode:          ModeLocal,
		SiteName:      "erp.localhost",
		Version:       "v16.7.3",
		DBType:        DBMariaDB,
		HTTPPort:      8080,
		DBPassword:    "dbsecret",
		AdminPassword: "adminsecret",
	}
}

func validProduction() Config {
	return Config{
		Mode:             ModeProduction,
		SiteName:         "erp.example.com",
		Version:          "v15.2.0",
		DBType:           DBMariaDB,
		Domain:           "erp.example.com",
		LetsEncryptEmail: "ops@example.com",
		DBPassword:       "dbsecret",
		AdminPassword:    "adminsecret",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		base    func() Config
		wantErr bool
	}{
		{name: "valid local", base: validLocal, mutate: func(c *Config) {}, wantErr: false},
		{name: "valid production", base: validProduction, mutate: func(c *Config) {}, wantErr: false},
		{
			name: "valid remote",
			base: validProduction,
			mutate: func(c *Config) {
				c.Mode = ModeRemote
				c.SSH = SSHConfig{Host: "203.0.113.7", User: "root", Port: 22}
			},
			wantErr: false,
		},
		{name: "bad mode", base: validLocal, mutate: func(c *Config) { c.Mode = "staging" }, wantErr: true},
		{name: "bad site", base: validLocal, mutate: func(c *Config) { c.SiteName = "nodots" }, wantErr: true},
		{name: "bad version", base: validLocal, mutate: func(c *Config) { c.Version = "16.7.3" }, wantErr: true},
		{name: "bad db type", base: validLocal, mutate: func(c *Config) { c.DBType = "oracle" }, wantErr: true},
		{name: "privileged port", base: validLocal, mutate: func(c *Config) { c.HTTPPort = 80 }, wantErr: true},
		{name: "short db password", base: validLocal, mutate: func(c *Config) { c.DBPassword = "abc" }, wantErr: true},
		{name: "production without domain", base: validProduction, mutate: func(c *Config) { c.Domain = "" }, wantErr: true},
		{name: "production bad email", base: validProduction, mutate: func(c *Config) { c.LetsEncryptEmail = "ops" }, wantErr: true},
		{
			name: "remote without host",
			base: validProduction,
			mutate: func(c *Config) {
				c.Mode = ModeRemote
				c.SSH = SSHConfig{User: "root", Port: 22}
			},
			wantErr: true,
		},
		{
			name: "smtp group incomplete",
			base: validProduction,
			mutate: func(c *Config) {
				c.SMTP = &SMTPConfig{Port: 587, UseTLS: true}
			},
			wantErr: true,
		},
		{
			name: "backup group incomplete",
			base: validProduction,
			mutate: func(c *Config) {
				c.Backup = &BackupConfig{S3Bucket: "backups"}
			},
			wantErr: true,
		},
		{
			name: "backup group complete",
			base: validProduction,
			mutate: func(c *Config) {
				c.Backup = &BackupConfig{
					S3Endpoint:  "https://s3.example.com",
					S3Bucket:    "backups",
					S3AccessKey: "AKIAEXAMPLE",
					S3SecretKey: "secretsecret",
				}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeZeroesIrrelevantFields(t *testing.T) {
	cfg := validLocal()
	cfg.Domain = "leftover.example.com"
	cfg.LetsEncryptEmail = "leftover@example.com"
	cfg.SSH = SSHConfig{Host: "leftover"}
	cfg.normalize()

	if cfg.Domain != "" || cfg.LetsEncryptEmail != "" {
		t.Errorf("local mode kept proxy fields: domain=%q email=%q", cfg.Domain, cfg.LetsEncryptEmail)
	}
	if cfg.SSH != (SSHConfig{}) {
		t.Errorf("local mode kept ssh config: %+v", cfg.SSH)
	}

	prod := validProduction()
	prod.HTTPPort = 9999
	prod.normalize()
	if prod.HTTPPort != 0 {
		t.Errorf("production mode kept http port %d", prod.HTTPPort)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{Mode: ModeRemote, SSH: SSHConfig{Host: "203.0.113.7"}}
	cfg.normalize()

	if cfg.DBType != DBMariaDB {
		t.Errorf("default db type = %q, want %q", cfg.DBType, DBMariaDB)
	}
	if cfg.SSH.User != "root" {
		t.Errorf("default ssh user = %q, want root", cfg.SSH.User)
	}
	if cfg.SSH.Port != 22 {
		t.Errorf("default ssh port = %d, want 22", cfg.SSH.Port)
	}

	local := Config{Mode: ModeLocal}
	local.normalize()
	if local.HTTPPort != 8080 {
		t.Errorf("default http port = %d, want 8080", local.HTTPPort)
	}

	withSMTP := Config{Mode: ModeLocal, SMTP: &SMTPConfig{Host: "mail.example.com"}}
	withSMTP.normalize()
	if withSMTP.SMTP.Port != 587 {
		t.Errorf("default smtp port = %d, want 587", withSMTP.SMTP.Port)
	}
}

func TestSiteURL(t *testing.T) {
	local := validLocal()
	if got, want := local.SiteURL(), "http://erp.localhost:8080"; got != want {
		t.Errorf("SiteURL() = %q, want %q", got, want)
	}

	prod := validProduction()
	if got, want := prod.SiteURL(), "https://erp.example.com"; got != want {
		t.Errorf("SiteURL() = %q, want %q", got, want)
	}
}
