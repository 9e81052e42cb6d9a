package cmd

import (
	"testing"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/executor"
)

func TestGatherFlags(t *testing.T) {
	restore := func(vars map[*string]string) {
		for p, v := range vars {
			*p = v
		}
	}
	saved := map[*string]string{
		&flagMode:          flagMode,
		&flagSiteName:      flagSiteName,
		&flagVersion:       flagVersion,
		&flagDBType:        flagDBType,
		&flagHTTPPort:      flagHTTPPort,
		&flagDBPassword:    flagDBPassword,
		&flagAdminPassword: flagAdminPassword,
		&flagSSHHost:       flagSSHHost,
		&flagSSHPort:       flagSSHPort,
		&flagApps:          flagApps,
	}
	t.Cleanup(func() { restore(saved) })

	flagMode = "remote"
	flagSiteName = "erp.example.com"
	flagVersion = "v16.7.3"
	flagDBType = "postgres"
	flagHTTPPort = "9090"
	flagDBPassword = "dbsecret1"
	flagAdminPassword = "adminsecret1"
	flagSSHHost = "erp.example.com"
	flagSSHPort = "2222"
	flagApps = "hrms,payments"

	flags := gatherFlags()

	if flags.Mode != "remote" || flags.SiteName != "erp.example.com" {
		t.Errorf("mode/site = %q/%q", flags.Mode, flags.SiteName)
	}
	if flags.Version != "v16.7.3" || flags.DBType != "postgres" {
		t.Errorf("version/db = %q/%q", flags.Version, flags.DBType)
	}
	if flags.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q", flags.HTTPPort)
	}
	if flags.SSHHost != "erp.example.com" || flags.SSHPort != "2222" {
		t.Errorf("ssh = %q:%q", flags.SSHHost, flags.SSHPort)
	}
	if flags.Apps != "hrms,payments" {
		t.Errorf("Apps = %q", flags.Apps)
	}
}

func TestDeployExecutor(t *testing.T) {
	local := deployExecutor(config.Config{Mode: config.ModeLocal})
	if _, ok := local.(*executor.Local); !ok {
		t.Errorf("local mode executor = %T, want *executor.Local", local)
	}

	production := deployExecutor(config.Config{Mode: config.ModeProduction})
	if _, ok := production.(*executor.Local); !ok {
		t.Errorf("production mode executor = %T, want *executor.Local", production)
	}

	remote := deployExecutor(config.Config{
		Mode: config.ModeRemote,
		SSH:  config.SSHConfig{Host: "erp.example.com", User: "root", Port: 22},
	})
	ssh, ok := remote.(*executor.SSH)
	if !ok {
		t.Fatalf("remote mode executor = %T, want *executor.SSH", remote)
	}
	if got := ssh.Target(); got != "root@erp.example.com:22" {
		t.Errorf("Target() = %q", got)
	}
}
