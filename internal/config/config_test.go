package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ServerAddr != "127.0.0.1:8080" || c.DefaultSheetIndex != 1 || c.MaxUploadMB != 32 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.ChartWidthIn != 10 || c.ChartHeightIn != 6 || c.LogLevel != "info" {
		t.Fatalf("unexpected chart/log defaults: %+v", c)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("server_addr: 0.0.0.0:9000\nmax_upload_mb: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CROPINSIGHTS_MAX_UPLOAD_MB", "64")
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.ServerAddr != "0.0.0.0:9000" {
		t.Fatalf("file value not applied: %q", c.ServerAddr)
	}
	if c.MaxUploadMB != 64 {
		t.Fatalf("env should win over file, got %d", c.MaxUploadMB)
	}
}

func TestSaveAndReload_YAMLAndTOML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"config.yaml", "config.toml"} {
		p := filepath.Join(dir, name)
		c, err := Load(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Set("server_addr", ":7070"); err != nil {
			t.Fatal(err)
		}
		if err := c.Set("chart_width_in", "12.5"); err != nil {
			t.Fatal(err)
		}
		if err := Save(c, p); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		b, _ := os.ReadFile(p)
		if strings.HasSuffix(name, ".toml") && !strings.Contains(string(b), "server_addr = ") {
			t.Fatalf("expected TOML output, got:\n%s", b)
		}
		got, err := Load(p)
		if err != nil {
			t.Fatal(err)
		}
		if got.ServerAddr != ":7070" || got.ChartWidthIn != 12.5 {
			t.Fatalf("%s: reload mismatch: %+v", name, got)
		}
	}
}

func TestSet_Validation(t *testing.T) {
	c := &Global{}
	bad := map[string]string{
		"default_sheet_index": "0",
		"max_upload_mb":       "-1",
		"log_level":           "loud",
		"chart_height_in":     "abc",
		"api_key":             "x",
	}
	for k, v := range bad {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("expected error for %s=%s", k, v)
		}
	}
	if err := c.Set("log_level", "DEBUG"); err != nil || c.LogLevel != "debug" {
		t.Fatalf("log_level: %v %q", err, c.LogLevel)
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
	}
}
