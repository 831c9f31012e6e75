// Package paths resolves where mmctl keeps its configuration, its database
// and the simulated memory images.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative defaults.
const (
	DefaultConfigDirName = ".mmctl"
	DefaultDataDirName   = ".mmctl-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "MMCTL_CONFIG_DIR"
	EnvDataDir   = "MMCTL_DATA_DIR"
)

// ConfigFileName is the viper config file inside the config directory.
const ConfigFileName = "config.yaml"

// getwd is swapped out in tests.
var getwd = os.Getwd

func cwdJoin(name string) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > MMCTL_CONFIG_DIR > $(CWD)/.mmctl.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultConfigDirName)
}

// ResolveDataDir returns the data directory:
// flag > data_dir from config.yaml > MMCTL_DATA_DIR > $(CWD)/.mmctl-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultDataDirName)
}

// ConfigFile returns the config file path inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
