package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "client.yml", `
base_url: https://api.example.com/v1/
timeout: 2s
headers:
  accept: application/json
logging:
  level: debug
`)

	var cfg testConfig
	if err := LoadConfig("client", &cfg, WithConfigFile(path), WithEnvPrefix("RBTEST_NONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com/v1/" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("expected 2s, got %v", cfg.Timeout)
	}
	if cfg.Headers["accept"] != "application/json" {
		t.Errorf("unexpected headers %v", cfg.Headers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "client.yml", "base_url: https://file.example.com/\ntimeout: 1s\n")
	t.Setenv("RBTEST_BASE_URL", "https://env.example.com/")
	t.Setenv("RBTEST_LOGGING_LEVEL", "warn")
	t.Setenv("OTHER_TIMEOUT", "9s")

	var cfg testConfig
	if err := LoadConfig("client", &cfg, WithConfigFile(path), WithEnvPrefix("rbtest_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com/" {
		t.Errorf("expected env override, got %q", cfg.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected nested env override, got %q", cfg.Logging.Level)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("unprefixed variable must be ignored, got %v", cfg.Timeout)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "RBENV_TIMEOUT=750ms\n")
	t.Cleanup(func() { os.Unsetenv("RBENV_TIMEOUT") })

	var cfg testConfig
	err := LoadConfig("client", &cfg,
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath),
		WithEnvPrefix("RBENV"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Timeout != 750*time.Millisecond {
		t.Errorf("expected 750ms from .env, got %v", cfg.Timeout)
	}
}

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("RBTEST_NONE"))
	if err != nil {
		t.Fatalf("expected success with missing file, got %v", err)
	}
	if cfg.BaseURL != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yml", "base_url: [unclosed\n")

	var cfg testConfig
	if err := LoadConfig("bad", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestResolveFiles(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/config.yml": true,
		"./.env":              true,
	}}
	files := ResolveFiles("billing", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "./config/config.yml" {
		t.Errorf("expected ./config/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}

	fs.files["./config/billing.yml"] = true
	fs.files["./.env.billing"] = true
	files = ResolveFiles("billing", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "./config/billing.yml" || files.EnvFile != "./.env.billing" {
		t.Errorf("expected service-specific files first, got %+v", files)
	}

	explicit := ResolveFiles("billing", LoaderConfig{FileSystem: fs, ConfigFile: "/etc/x.yml"})
	if explicit.ConfigFile != "/etc/x.yml" {
		t.Errorf("explicit path must win, got %q", explicit.ConfigFile)
	}
}

func TestLoadConfig_UsesFileSystemForEnv(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs), WithEnvPrefix("RBTEST_NONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(fs.loaded, []string{"./.env"}) {
		t.Errorf("expected .env to be loaded through FileSystem, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"TIMEOUT", []string{"timeout"}},
		{"BASE_URL", []string{"base_url", "base.url"}},
		{"HEADERS_X_TENANT", []string{"headers_x_tenant", "headers.x_tenant"}},
		{"_LEADING", []string{"_leading"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := envKeyVariants(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/c.yml")(&lc)
	WithEnvFile("/.env")(&lc)
	WithEnvPrefix("billing_")(&lc)
	if lc.ConfigFile != "/c.yml" || lc.EnvFile != "/.env" || lc.EnvPrefix != "BILLING" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
