/*
Package config resolves where llmstep sends its requests.

Values come from three layers, later ones winning:

 1. builtin defaults (localhost:6000, DEFAULT mode, JSON, no timeout)
 2. an optional TOML file: $LLMSTEP_CONFIG, or [UserConfigDir]/llmstep/config.toml
 3. LLMSTEP_* environment variables

The file is only read, never created. A broken file logs a warning and the
defaults are kept, so the editor still gets a usable client.

	[server]
	host = "localhost"
	port = 6000
	mode = "DEFAULT"

	[client]
	codec = "json"
	timeout = "0s"
	debug = false
	compat = false
*/
package config

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/llmstep/internal/utils"
	"github.com/charmbracelet/log"
)

// Server modes.
const (
	ModeDefault = "DEFAULT"
	// ModeColab treats Host as the complete endpoint URL.
	ModeColab = "COLAB"
)

// Environment variable names.
const (
	EnvHost    = "LLMSTEP_HOST"
	EnvPort    = "LLMSTEP_PORT"
	EnvServer  = "LLMSTEP_SERVER"
	EnvCodec   = "LLMSTEP_CODEC"
	EnvTimeout = "LLMSTEP_TIMEOUT"
	EnvDebug   = "LLMSTEP_DEBUG"
	EnvCompat  = "LLMSTEP_COMPAT"
	EnvConfig  = "LLMSTEP_CONFIG"
)

const appDir = "llmstep"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig says where the suggestion server lives.
// Port stays a string so the URL is built from exactly what the user gave.
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Mode string `toml:"mode"`
}

// ClientConfig holds request and output options.
type ClientConfig struct {
	Codec   string        `toml:"codec"`
	Timeout time.Duration `toml:"timeout"`
	Debug   bool          `toml:"debug"`
	Compat  bool          `toml:"compat"`
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: "6000",
			Mode: ModeDefault,
		},
		Client: ClientConfig{
			Codec: "json",
		},
	}
}

// DefaultConfigPath returns [UserConfigDir]/llmstep/config.toml
func DefaultConfigPath() (string, error) {
	dir, err := utils.ConfigDir(appDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves the full configuration for one invocation.
// It returns the config file path actually used, or "" when none was read.
func Load(lookup LookupFunc) (*Config, string) {
	cfg := DefaultConfig()
	path := configPath(lookup)

	if path != "" {
		if fileCfg, err := LoadConfig(path); err != nil {
			log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", path, err)
			path = ""
		} else {
			cfg = fileCfg
			log.Debugf("Loaded config from: %s", utils.GetAbsolutePath(path))
		}
	}

	cfg.ApplyEnv(lookup)
	return cfg, path
}

// configPath picks the file to read: LLMSTEP_CONFIG wins, the default path is used only if present.
func configPath(lookup LookupFunc) string {
	if custom, ok := lookup(EnvConfig); ok && custom != "" {
		if utils.FileExists(custom) {
			return custom
		}
		log.Warnf("Custom config file not found at %s. Trying default path...", custom)
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		log.Debugf("No default config dir: %v", err)
		return ""
	}
	if !utils.FileExists(defaultPath) {
		return ""
	}
	return defaultPath
}

// LoadConfig reads a TOML file on top of the defaults.
// Unknown keys and keys of the wrong type are ignored.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := utils.ParseTOMLFile(configPath)
	if err != nil {
		return nil, err
	}
	if serverSection, ok := utils.ExtractSection(data, "server"); ok {
		extractServerConfig(serverSection, &cfg.Server)
	}
	if clientSection, ok := utils.ExtractSection(data, "client"); ok {
		extractClientConfig(clientSection, &cfg.Client)
	}
	return cfg, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "host"); ok {
		server.Host = val
	}
	if val, ok := utils.ExtractInt64(data, "port"); ok {
		server.Port = strconv.Itoa(val)
	} else if val, ok := utils.ExtractString(data, "port"); ok {
		server.Port = val
	}
	if val, ok := utils.ExtractString(data, "mode"); ok {
		server.Mode = val
	}
}

// extractClientConfig extracts client configuration from a map
func extractClientConfig(data map[string]any, client *ClientConfig) {
	if val, ok := utils.ExtractString(data, "codec"); ok {
		client.Codec = val
	}
	if val, ok := utils.ExtractString(data, "timeout"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			client.Timeout = d
		} else {
			log.Warnf("Ignoring invalid timeout %q in config: %v", val, err)
		}
	} else if val, ok := utils.ExtractInt64(data, "timeout"); ok {
		client.Timeout = time.Duration(val) * time.Second
	}
	if val, ok := utils.ExtractBool(data, "debug"); ok {
		client.Debug = val
	}
	if val, ok := utils.ExtractBool(data, "compat"); ok {
		client.Compat = val
	}
}

// ApplyEnv overrides fields with any LLMSTEP_* variable that is set.
// A variable set to the empty string still counts as set, so LLMSTEP_HOST= yields an empty host.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if val, ok := lookup(EnvHost); ok {
		c.Server.Host = val
	}
	if val, ok := lookup(EnvPort); ok {
		c.Server.Port = val
	}
	if val, ok := lookup(EnvServer); ok {
		c.Server.Mode = val
	}
	if val, ok := lookup(EnvCodec); ok {
		c.Client.Codec = val
	}
	if val, ok := lookup(EnvTimeout); ok && val != "" {
		if d, err := parseTimeout(val); err == nil {
			c.Client.Timeout = d
		} else {
			log.Warnf("Ignoring invalid %s=%q: %v", EnvTimeout, val, err)
		}
	}
	if val, ok := lookup(EnvDebug); ok {
		c.Client.Debug = truthy(val)
	}
	if val, ok := lookup(EnvCompat); ok {
		c.Client.Compat = truthy(val)
	}
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(val string) (time.Duration, error) {
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(val)
}

func truthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}
