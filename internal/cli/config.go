package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/phonebook/internal/paths"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "PHONEBOOK"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyBirthdayPolicy = "birthday_policy"
	cfgKeyPageSize       = "page_size"
	cfgKeyLogLevel       = "log_level"
)

// envKeys are the config keys that PHONEBOOK_<KEY> variables override.
// data_dir is left out; PHONEBOOK_DATA_DIR ranks below config.yaml.
var envKeys = []string{cfgKeyBackend, cfgKeyBirthdayPolicy, cfgKeyPageSize, cfgKeyLogLevel}

// loadSettings loads .env files, reads config.yaml and resolves the data
// directory into a validated Config.
func (a *app) loadSettings() (types.Config, error) {
	if err := loadEnvFile(paths.EnvFileName); err != nil {
		return types.Config{}, err
	}
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return types.Config{}, sysErr("resolve config dir: %w", err)
	}
	a.configDir = configDir
	if err := loadEnvFile(paths.EnvFile(configDir)); err != nil {
		return types.Config{}, err
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysErr("resolve data dir: %w", err)
	}
	return configFrom(v, dataDir)
}

// loadEnvFile loads variables from path without overriding ones already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// loadConfig reads config.yaml from configDir with viper. A missing file is
// not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyBirthdayPolicy, string(def.BirthdayPolicy))
	v.SetDefault(cfgKeyPageSize, def.PageSize)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, sysErr("read config: %w", err)
	}
	return v, nil
}

// configFrom decodes v into a Config with the resolved data directory.
func configFrom(v *viper.Viper, dataDir string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
