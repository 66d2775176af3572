package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix maps HABITS_LISTEN to listen, HABITS_DATA_DIR to data_dir.
	envPrefix = "habits"
)

// Config keys.
const (
	cfgKeyDataDir   = "data_dir"
	cfgKeyListen    = "listen"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// Defaults applied when neither config.yaml nor the environment set a key.
const (
	defaultListen    = "127.0.0.1:5000"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// configFile is the layout of config.yaml.
type configFile struct {
	DataDir   string `yaml:"data_dir,omitempty"`
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// settings is the resolved configuration after flags, environment and
// config.yaml are merged.
type settings struct {
	ConfigDir string
	DataDir   string
	Listen    string
	LogLevel  string
	LogFormat string
}

const configHeader = "# habits configuration\n# data_dir defaults to the platform data directory when unset.\n"

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Environment variables prefixed HABITS_
// override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DataDir:   dataDir,
		Listen:    defaultListen,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
