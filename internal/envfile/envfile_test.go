package envfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erpstack/erpstack/internal/config"
	"github.com/erpstack/erpstack/internal/executor"
)

func TestRenderLocal(t *testing.T) {
	cfg := config.Config{
		Mode:          config.ModeLocal,
		SiteName:      "erp.localhost",
		Version:       "v16.7.3",
		DBType:        config.DBMariaDB,
		HTTPPort:      8080,
		DBPassword:    "dbsecret",
		AdminPassword: "adminsecret",
	}

	want := "ERPNEXT_VERSION=v16.7.3\n" +
		"FRAPPE_VERSION=version-16\n" +
		"DB_PASSWORD=dbsecret\n" +
		"FRAPPE_SITE_NAME_HEADER=erp.localhost\n" +
		"HTTP_PUBLISH_PORT=8080\n" +
		"LETSENCRYPT_EMAIL=mail@example.com\n"

	if got := Render(cfg); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderProduction(t *testing.T) {
	cfg := config.Config{
		Mode:             config.ModeProduction,
		SiteName:         "erp.example.com",
		Version:          "v15.2.0",
		DBType:           config.DBMariaDB,
		Domain:           "erp.example.com",
		LetsEncryptEmail: "ops@example.com",
		DBPassword:       "dbsecret",
		AdminPassword:    "adminsecret",
	}

	got := Render(cfg)

	for _, want := range []string{
		"ERPNEXT_VERSION=v15.2.0\n",
		"FRAPPE_VERSION=version-15\n",
		"LETSENCRYPT_EMAIL=ops@example.com\n",
		"SITES=`erp.example.com`\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in:\n%s", want, got)
		}
	}

	if strings.Contains(got, "HTTP_PUBLISH_PORT") {
		t.Errorf("production descriptor must omit the local publish port:\n%s", got)
	}
	if strings.Contains(got, "mail@example.com") {
		t.Errorf("production descriptor must use the real ACME email:\n%s", got)
	}
}

func TestParse(t *testing.T) {
	content := "ERPNEXT_VERSION=v16.7.3\n" +
		"# comment line\n" +
		"FRAPPE_SITE_NAME_HEADER=\"erp.localhost\"\n" +
		"\n" +
		"SITES=`erp.example.com`\n" +
		"not a pair\n"

	got := Parse(content)

	want := map[string]string{
		"ERPNEXT_VERSION":         "v16.7.3",
		"FRAPPE_SITE_NAME_HEADER": "erp.localhost",
		"SITES":                   "`erp.example.com`",
	}
	if len(got) != len(want) {
		t.Fatalf("Parse() returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Parse()[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Mode:          config.ModeLocal,
		SiteName:      "erp.localhost",
		Version:       "v16.7.3",
		DBType:        config.DBMariaDB,
		HTTPPort:      8080,
		DBPassword:    "dbsecret",
		AdminPassword: "adminsecret",
	}

	if err := Materialize(context.Background(), executor.NewLocal(), cfg, dir); err != nil {
		t.Fatalf("Materialize() = %v, want nil", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("reading materialized file: %v", err)
	}
	if string(got) != Render(cfg) {
		t.Errorf("materialized content differs from rendered content")
	}
}
