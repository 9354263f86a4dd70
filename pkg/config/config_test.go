package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[orders]
json_dir = "in"
concurrency = 3
interval = "90s"

[engine]
seed = 7

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Orders.JSONDir = "in"
	want.Orders.Concurrency = 3
	want.Orders.Interval = Duration{90 * time.Second}
	want.Engine.Seed = 7
	want.Cache.Backend = BackendRedis
	want.Cache.RedisURL = "redis://localhost:6379/0"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[orders\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[engine]\nretries = 3\n", errors.ErrCodeInvalidConfig},
		{"bad duration", "[orders]\ninterval = \"soon\"\n", errors.ErrCodeInvalidConfig},
		{"zero budget", "[engine]\nretry_budget = 0\n", errors.ErrCodeInvalidConfig},
		{"tiny tiles", "[render]\ntile_size = 2\n", errors.ErrCodeInvalidConfig},
		{"huge tiles", "[render]\ntile_size = 4096\n", errors.ErrCodeInvalidConfig},
		{"huge initial size", "[engine]\ninitial_size = 100000\n", errors.ErrCodeInvalidConfig},
		{"budget above limit", "[engine]\nretry_budget = 5000\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName, FileName); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("LoadDefault mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.GlyphDir = "tiles"
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load encoded: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate(t *testing.T) {
	cfg := Default()
	cfg.Engine.Seed = 9
	cfg.Render.GlyphDir = "tiles"
	tpl := cfg.Template()
	if tpl.Seed != 9 || tpl.GlyphDir != "tiles" || tpl.RetryBudget != cfg.Engine.RetryBudget {
		t.Errorf("Template() = %+v", tpl)
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load(examples/config.toml): %v", err)
	}
	if cfg.Orders.Concurrency != 4 {
		t.Errorf("Orders.Concurrency = %d, want 4", cfg.Orders.Concurrency)
	}
	if cfg.Cache.Prefix != "wordtiles:" {
		t.Errorf("Cache.Prefix = %q, want %q", cfg.Cache.Prefix, "wordtiles:")
	}
}
