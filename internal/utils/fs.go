package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}

	if !filepath.IsAbs(configPath) {
		if absPath, err := filepath.Abs(configPath); err == nil {
			return absPath
		}
	}
	return configPath
}

// ConfigDir returns the platform config directory for app.
// It does not create anything; a client that only reads config has no reason to.
func ConfigDir(app string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return configDirFor(runtime.GOOS, homeDir, os.Getenv, app), nil
}

func configDirFor(goos, homeDir string, getenv func(string) string, app string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, ".config", app)
	case "linux":
		if configHome := getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	default:
		return filepath.Join(homeDir, "."+app)
	}
}
