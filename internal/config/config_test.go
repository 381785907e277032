package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/mhtools/mhwork/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MHWORK_STORE_DSN", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultConfig(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "mhwork", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Export.Format != "csv" || len(cfg.Export.Columns) != 0 || cfg.Export.OutputDir != "" {
		t.Fatalf("unexpected export config: %+v", cfg.Export)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.PageSize != 100 {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if want := filepath.Join(home, ".local", "share", "mhwork", "worklists.db"); cfg.Store.DSN != want {
		t.Fatalf("unexpected dsn: got %q want %q", cfg.Store.DSN, want)
	}
	if cfg.Display.Style != "rounded" {
		t.Fatalf("unexpected style: %q", cfg.Display.Style)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("mhwork.toml", []byte("[export]\nformat = \"xlsx\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "mhwork.toml" {
		t.Fatalf("expected project config, got %q (exists %v)", resolved, exists)
	}
	if cfg.Export.Format != "xlsx" {
		t.Fatalf("export format = %q", cfg.Export.Format)
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, `
[log]
level = " DEBUG "
format = "JSON"

[export]
format = ".JSONL"
columns = ["Sample Name", "  ", " Data File "]
output_dir = "~/exports"

[store]
driver = "PostgreSQL"
dsn = "postgres://localhost/mh"

[display]
style = "Light"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Export.Format != "jsonl" {
		t.Fatalf("export format = %q", cfg.Export.Format)
	}
	if strings.Join(cfg.Export.Columns, "|") != "Sample Name|Data File" {
		t.Fatalf("columns = %q", cfg.Export.Columns)
	}
	if cfg.Export.OutputDir != filepath.Join(home, "exports") {
		t.Fatalf("output dir = %q", cfg.Export.OutputDir)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN != "postgres://localhost/mh" {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Display.Style != "light" {
		t.Fatalf("style = %q", cfg.Display.Style)
	}
}

func TestLoadDSNFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MHWORK_STORE_DSN", "postgres://env/mh")
	path := writeConfig(t, "[store]\ndriver = \"postgres\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.DSN != "postgres://env/mh" {
		t.Fatalf("dsn = %q", cfg.Store.DSN)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"log level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"log format", "[log]\nformat = \"xml\"\n", "log.format"},
		{"export format", "[export]\nformat = \"parquet\"\n", "export.format"},
		{"driver", "[store]\ndriver = \"oracle\"\n", "store.driver"},
		{"postgres without dsn", "[store]\ndriver = \"postgres\"\n", "store.dsn"},
		{"page size", "[store]\npage_size = -1\n", "store.page_size"},
		{"style", "[display]\nstyle = \"fancy\"\n", "display.style"},
		{"unknown key", "[store]\nhost = \"x\"\n", "parse config"},
		{"syntax", "[log\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Store.Driver != "sqlite" || decoded.Export.Format != "csv" {
		t.Fatalf("unexpected sample values: %+v", decoded)
	}

	if err := config.CreateSample(path, false); err == nil {
		t.Fatal("expected error when config exists")
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg.Store.PageSize != 100 {
		t.Fatalf("page size = %d", cfg.Store.PageSize)
	}
}
