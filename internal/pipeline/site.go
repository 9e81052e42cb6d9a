package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/erpstack/erpstack/internal/compose"
	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/executor"
	"github.com/erpstack/erpstack/internal/tui"
)

// Site creates the ERPNext site inside the backend container and finishes
// the deployment: scheduler, site settings, optional apps, hosts-file
// guidance and the completion panel. Only site creation itself is fatal;
// everything after it degrades to warnings.
type Site struct{}

func (Site) Name() string { return "Site" }

func (s Site) Run(ctx context.Context, env *Env) error {
	composeCmd := env.InDir(compose.Command(env.Config))

	if err := s.createSite(ctx, env, composeCmd); err != nil {
		return err
	}
	s.enableScheduler(ctx, env, composeCmd)
	s.applySiteSettings(ctx, env, composeCmd)
	s.installExtraApps(ctx, env, composeCmd)

	if env.Config.Mode == config.ModeLocal {
		s.updateHosts(env)
	}

	s.finalProbe(ctx, env, composeCmd)
	s.showCompletion(env)
	return nil
}

// createSite runs bench new-site, offering the operator a retry on
// failure. Unattended runs abort on the first failure.
func (Site) createSite(ctx context.Context, env *Env, composeCmd string) error {
	site := env.Config.SiteName
	createCmd := fmt.Sprintf(
		"%s exec -T backend bench new-site %s --install-app erpnext --db-root-password %s --admin-password %s",
		composeCmd,
		executor.Quote(site),
		executor.Quote(env.Config.DBPassword),
		executor.Quote(env.Config.AdminPassword),
	)

	env.Printer.Step("Creating site %s", site)
	env.Printer.Info("This installs ERPNext into the site and can take several minutes")
	env.Log.Debug("site creation command", "command", executor.Redact(createCmd))

	for {
		code, err := env.Exec.Run(ctx, createCmd)
		if err != nil {
			return err
		}
		if code == 0 {
			env.Printer.Success("Site %s created", site)
			env.Log.Info("site created", "site", site)
			return nil
		}

		env.Printer.Fail("Site creation failed with exit code %d", code)
		if env.Unattended || env.Confirm == nil {
			return errors.NewSiteCreationError(site, code)
		}

		retry, err := env.Confirm("Retry site creation?")
		if err != nil {
			return err
		}
		if !retry {
			return errors.NewSiteCreationError(site, code)
		}
		env.Printer.Step("Creating site %s", site)
	}
}

func (Site) enableScheduler(ctx context.Context, env *Env, composeCmd string) {
	env.Printer.Step("Enabling the background scheduler")

	cmd := fmt.Sprintf("%s exec -T backend bench --site %s enable-scheduler",
		composeCmd, executor.Quote(env.Config.SiteName))
	code, err := env.Exec.Run(ctx, cmd)
	if err != nil || code != 0 {
		env.Printer.Warn("Could not enable the scheduler, scheduled jobs will not run until it is enabled")
		return
	}
	env.Printer.Success("Scheduler enabled")
}

// siteSetting is one bench set-config assignment. Parsed values are
// stored as numbers/booleans instead of strings.
type siteSetting struct {
	key    string
	value  string
	parsed bool
}

// applySiteSettings pushes the optional SMTP and backup groups into the
// site configuration. Each failed key is a warning.
func (Site) applySiteSettings(ctx context.Context, env *Env, composeCmd string) {
	if smtp := env.Config.SMTP; smtp != nil {
		env.Printer.Step("Applying SMTP settings")

		useTLS := "0"
		if smtp.UseTLS {
			useTLS = "1"
		}
		settings := []siteSetting{
			{key: "mail_server", value: smtp.Host},
			{key: "mail_port", value: strconv.Itoa(smtp.Port), parsed: true},
			{key: "mail_login", value: smtp.User},
			{key: "mail_password", value: smtp.Password},
			{key: "use_tls", value: useTLS, parsed: true},
		}
		if applySettings(ctx, env, composeCmd, settings) {
			env.Printer.Success("SMTP settings applied")
		}
	}

	if backup := env.Config.Backup; backup != nil {
		env.Printer.Step("Applying backup storage settings")

		settings := []siteSetting{
			{key: "backup_s3_endpoint", value: backup.S3Endpoint},
			{key: "backup_s3_bucket", value: backup.S3Bucket},
			{key: "backup_s3_access_key", value: backup.S3AccessKey},
			{key: "backup_s3_secret_key", value: backup.S3SecretKey},
		}
		if applySettings(ctx, env, composeCmd, settings) {
			env.Printer.Success("Backup storage settings applied")
		}
	}
}

func applySettings(ctx context.Context, env *Env, composeCmd string, settings []siteSetting) bool {
	siteQ := executor.Quote(env.Config.SiteName)
	allOK := true

	for _, setting := range settings {
		if setting.value == "" {
			continue
		}
		flag := ""
		if setting.parsed {
			flag = "-p "
		}
		cmd := fmt.Sprintf("%s exec -T backend bench --site %s set-config %s%s %s",
			composeCmd, siteQ, flag, setting.key, executor.Quote(setting.value))

		code, _, stderr, err := env.Exec.RunCapture(ctx, cmd)
		if err != nil || code != 0 {
			env.Printer.Warn("Could not set %s", setting.key)
			env.Log.Warn("set-config failed", "key", setting.key, "stderr", strings.TrimSpace(stderr))
			allOK = false
		}
	}
	return allOK
}

// installExtraApps installs each selected optional app. A failing app is
// skipped, not fatal; the frontend restarts once if anything succeeded so
// freshly built assets are served.
func (Site) installExtraApps(ctx context.Context, env *Env, composeCmd string) {
	appsList := env.Config.ExtraApps
	if len(appsList) == 0 {
		return
	}

	var failed []string
	for i, app := range appsList {
		env.Printer.Step("Installing optional app %d/%d: %s", i+1, len(appsList), app)
		if err := installApp(ctx, env, composeCmd, app); err != nil {
			env.Printer.Warn("Could not install %s: %v", app, err)
			env.Log.WithError(err).Warn("app installation failed", "app", app)
			failed = append(failed, app)
			continue
		}
		env.Printer.Success("%s installed", app)
	}

	if len(failed) < len(appsList) {
		env.Printer.Step("Restarting the frontend to serve the new assets")
		if code, err := env.Exec.Run(ctx, composeCmd+" restart frontend"); err != nil || code != 0 {
			env.Printer.Warn("Could not restart the frontend, restart it manually to serve new assets")
		}
	}

	if len(failed) > 0 {
		env.Printer.Warn("%d of %d optional apps failed to install", len(failed), len(appsList))
	} else {
		env.Printer.Success("All %d optional apps installed", len(appsList))
	}
}

// installApp performs the full installation sequence for one app. The
// production containers need the pip install and apps.txt registration
// spelled out because bench get-app only clones the repository there.
// The asset steps tolerate failure: a missing asset build leaves the app
// functional with stale styling.
func installApp(ctx context.Context, env *Env, composeCmd, app string) error {
	appQ := executor.Quote(app)
	siteQ := executor.Quote(env.Config.SiteName)
	backend := composeCmd + " exec -T backend "

	registerScript := fmt.Sprintf("grep -qxF %s sites/apps.txt || echo %s >> sites/apps.txt", appQ, appQ)

	// bench build leaves sites/assets/<app> as a symlink into apps/,
	// which the frontend container cannot resolve. Replace it with a
	// real copy.
	publishScript := fmt.Sprintf(
		"if [ -L sites/assets/%[1]s ]; then target=$(readlink sites/assets/%[1]s) && rm sites/assets/%[1]s && cp -r \"$target\" sites/assets/%[1]s; fi",
		appQ)

	steps := []struct {
		desc     string
		cmd      string
		failSoft bool
	}{
		{desc: "download", cmd: backend + "bench get-app " + appQ},
		{desc: "pip install", cmd: backend + "pip install -e apps/" + appQ},
		{desc: "apps.txt registration", cmd: backend + "bash -c " + executor.Quote(registerScript), failSoft: true},
		{desc: "site installation", cmd: fmt.Sprintf("%sbench --site %s install-app %s", backend, siteQ, appQ)},
		{desc: "asset build", cmd: backend + "bench build --app " + appQ, failSoft: true},
		{desc: "asset publication", cmd: backend + "bash -c " + executor.Quote(publishScript), failSoft: true},
	}

	for _, step := range steps {
		code, err := env.Exec.Run(ctx, step.cmd)
		if err != nil {
			return err
		}
		if code != 0 && !step.failSoft {
			return fmt.Errorf("%s failed with exit code %d", step.desc, code)
		}
	}
	return nil
}

// hostsFile is a variable so tests can point it at a scratch file.
var hostsFile = defaultHostsFile()

func defaultHostsFile() string {
	if runtime.GOOS == "windows" {
		return `C:\Windows\System32\drivers\etc\hosts`
	}
	return "/etc/hosts"
}

// updateHosts makes the site name resolve to this machine. Runs only in
// local mode, where the site name is not a real DNS entry.
func (Site) updateHosts(env *Env) {
	site := env.Config.SiteName
	entry := "127.0.0.1 " + site

	env.Printer.Step("Checking %s", hostsFile)

	content, err := os.ReadFile(hostsFile)
	if err == nil && strings.Contains(string(content), entry) {
		env.Printer.Success("Hosts entry already present")
		return
	}

	if err == nil {
		if appendErr := appendLine(hostsFile, entry); appendErr == nil {
			env.Printer.Success("Added %q to %s", entry, hostsFile)
			return
		}
	}

	env.Printer.Warn("Could not update %s automatically", hostsFile)
	env.Printer.Panel("Add the hosts entry manually",
		"File: "+hostsFile,
		"Line: "+entry,
	)
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "\n%s\n", line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// finalProbe is a best-effort single-shot check after all site work.
func (Site) finalProbe(ctx context.Context, env *Env, composeCmd string) {
	code, stdout, _, err := env.Exec.RunCapture(ctx, composeCmd+" ps --format json")
	if err == nil && code == 0 && compose.AllRunning(compose.ParsePS(stdout)) {
		env.Printer.Success("Stack is running")
		return
	}
	env.Printer.Warn("Some services are still starting, check them with: erpstack status")
}

func (Site) showCompletion(env *Env) {
	url := env.Config.SiteURL()

	env.Printer.Blank()
	env.Printer.KeyValues("Deployment complete", []tui.KV{
		{Key: "URL", Value: url},
		{Key: "Login", Value: "Administrator"},
		{Key: "Password", Value: "the administrator password you chose"},
	})
	env.Printer.Detail("Open %s and finish the ERPNext setup wizard", url)
}
