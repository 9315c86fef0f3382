// Package paths resolves where the phone book keeps its configuration and
// its contact data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "phonebook"

// Directory and file names.
const (
	DefaultDataDirName = ".phonebook-db"
	ConfigFileName     = "config.yaml"
	EnvFileName        = ".env"
)

// Environment variables that override directory locations.
const (
	EnvConfigDir = "PHONEBOOK_CONFIG_DIR"
	EnvDataDir   = "PHONEBOOK_DATA_DIR"
)

// platformDir holds platform lookups that tests can override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/phonebook (fallback ~/.config/phonebook)
// macOS:   ~/Library/Application Support/phonebook
// Windows: %APPDATA%/phonebook
func DefaultConfigDir() (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ResolveConfigDir picks the configuration directory: flag, then
// PHONEBOOK_CONFIG_DIR, then DefaultConfigDir. Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the data_dir value
// from config.yaml, then PHONEBOOK_DATA_DIR, then .phonebook-db in the
// working directory.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// EnvFile returns the path of the optional .env file inside configDir.
func EnvFile(configDir string) string {
	return filepath.Join(configDir, EnvFileName)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
