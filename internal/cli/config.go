package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/memmgr/internal/logging"
	"github.com/mesh-intelligence/memmgr/internal/paths"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

const (
	configFileType = "yaml"

	cfgKeyLogLevel = "log_level"
)

const configHeader = `# mmctl configuration
#
# memory_map lists the simulated regions; each is kept in <data_dir>/<name>.img.
# limits may lower, never raise, the compiled transfer maxima.
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default config on first run.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	defaults := types.DefaultConfig()
	v.SetDefault(cfgKeyLogLevel, defaults.LogLevel)
	v.SetConfigFile(paths.ConfigFile(configDir))
	v.SetConfigType(configFileType)
	if err := v.BindEnv(cfgKeyLogLevel, logging.EnvLogLevel); err != nil {
		return types.Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		return types.Config{}, fmt.Errorf("read config: %w", err)
	}

	// Keys missing from the file keep their default values.
	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile writes the default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
