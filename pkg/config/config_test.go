package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// envMap stands in for os.LookupEnv.
func envMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// isolateHome keeps a real ~/.config/llmstep/config.toml out of the tests.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	isolateHome(t)

	cfg, path := Load(envMap(nil))
	if path != "" {
		t.Errorf("no config file expected, got %s", path)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != "6000" || cfg.Server.Mode != ModeDefault {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Client.Codec != "json" || cfg.Client.Timeout != 0 || cfg.Client.Debug || cfg.Client.Compat {
		t.Errorf("unexpected client defaults: %+v", cfg.Client)
	}
}

func TestApplyEnv(t *testing.T) {
	testCases := []struct {
		description string
		env         map[string]string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			"colab mode with full url",
			map[string]string{EnvServer: "COLAB", EnvHost: "http://example.test/api", EnvPort: "9"},
			func(t *testing.T, cfg *Config) {
				if cfg.Server.Mode != ModeColab || cfg.Server.Host != "http://example.test/api" || cfg.Server.Port != "9" {
					t.Errorf("got %+v", cfg.Server)
				}
			},
		},
		{
			"empty host still overrides",
			map[string]string{EnvHost: ""},
			func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "" {
					t.Errorf("host = %q, want empty", cfg.Server.Host)
				}
			},
		},
		{
			"port kept verbatim",
			map[string]string{EnvPort: "not-a-port"},
			func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != "not-a-port" {
					t.Errorf("port = %q", cfg.Server.Port)
				}
			},
		},
		{
			"timeout as duration",
			map[string]string{EnvTimeout: "1500ms"},
			func(t *testing.T, cfg *Config) {
				if cfg.Client.Timeout != 1500*time.Millisecond {
					t.Errorf("timeout = %v", cfg.Client.Timeout)
				}
			},
		},
		{
			"timeout as seconds",
			map[string]string{EnvTimeout: "30"},
			func(t *testing.T, cfg *Config) {
				if cfg.Client.Timeout != 30*time.Second {
					t.Errorf("timeout = %v", cfg.Client.Timeout)
				}
			},
		},
		{
			"invalid timeout ignored",
			map[string]string{EnvTimeout: "soon"},
			func(t *testing.T, cfg *Config) {
				if cfg.Client.Timeout != 0 {
					t.Errorf("timeout = %v", cfg.Client.Timeout)
				}
			},
		},
		{
			"flags",
			map[string]string{EnvDebug: "yes", EnvCompat: "1", EnvCodec: "msgpack"},
			func(t *testing.T, cfg *Config) {
				if !cfg.Client.Debug || !cfg.Client.Compat || cfg.Client.Codec != "msgpack" {
					t.Errorf("got %+v", cfg.Client)
				}
			},
		},
		{
			"falsy debug",
			map[string]string{EnvDebug: "0"},
			func(t *testing.T, cfg *Config) {
				if cfg.Client.Debug {
					t.Error("debug should be off")
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyEnv(envMap(tc.env))
			tc.check(t, cfg)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "gpu-box"
port = 6001
mode = "DEFAULT"

[client]
codec = "msgpack"
timeout = "20s"
debug = true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Host != "gpu-box" || cfg.Server.Port != "6001" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Client.Codec != "msgpack" || cfg.Client.Timeout != 20*time.Second || !cfg.Client.Debug {
		t.Errorf("client = %+v", cfg.Client)
	}
	if cfg.Client.Compat {
		t.Error("compat should keep its default")
	}
}

func TestLoadConfigStringPortAndBadTypes(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "7000"
host = 42

[client]
timeout = 5
debug = "nope"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("mistyped host should keep default, got %q", cfg.Server.Host)
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Client.Timeout)
	}
	if cfg.Client.Debug {
		t.Error("mistyped debug should keep default")
	}
}

func TestLoadPriority(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "[server]\nhost = \"from-file\"\nport = 7000\n")

	cfg, used := Load(envMap(map[string]string{EnvConfig: path}))
	if used != path {
		t.Errorf("used config %q, want %q", used, path)
	}
	if cfg.Server.Host != "from-file" || cfg.Server.Port != "7000" {
		t.Errorf("file values not applied: %+v", cfg.Server)
	}

	cfg, _ = Load(envMap(map[string]string{EnvConfig: path, EnvHost: "from-env"}))
	if cfg.Server.Host != "from-env" || cfg.Server.Port != "7000" {
		t.Errorf("env should override only what it sets: %+v", cfg.Server)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	isolateHome(t)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[server]\nhost = \"default-file\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, used := Load(envMap(nil))
	if used != path || cfg.Server.Host != "default-file" {
		t.Errorf("default config not used: path=%q host=%q", used, cfg.Server.Host)
	}
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "[server\nhost=")

	cfg, used := Load(envMap(map[string]string{EnvConfig: path}))
	if used != "" {
		t.Errorf("broken config should not be reported as used, got %q", used)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected defaults, got %+v", cfg.Server)
	}
}

func TestMissingCustomConfig(t *testing.T) {
	isolateHome(t)
	cfg, used := Load(envMap(map[string]string{EnvConfig: "/nonexistent/llmstep.toml"}))
	if used != "" || cfg.Server.Port != "6000" {
		t.Errorf("expected defaults, got path=%q cfg=%+v", used, cfg.Server)
	}
}
