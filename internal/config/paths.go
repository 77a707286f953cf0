// Package config provides configuration management for Nightscout Tray.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// LogDirectory returns the log directory for the tray.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\Nightscout\Tray\logs
//   - Unix: ~/.config/nightscout-tray/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "nightscout-tray-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "Nightscout", "Tray", "logs")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "nightscout-tray-logs")
		}
		return filepath.Join(homeDir, ".config", "nightscout-tray", "logs")
	}
	return filepath.Join(configDir, "nightscout-tray", "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
// Uses 0700 so logs are readable by the owner only.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}
