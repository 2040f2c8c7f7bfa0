// Package config loads ledger settings from config.yaml in the
// configuration directory, with environment and flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// FileName is the configuration file inside the config directory.
	FileName = "config.yaml"

	envPrefix = "LEDGER"
)

// Config keys in config.yaml.
const (
	KeyBackend  = "backend"
	KeyDataDir  = "data_dir"
	KeyFile     = "file"
	KeyLogLevel = "log_level"
)

// Defaults applied when neither config.yaml, env, nor flags set a value.
const (
	DefaultBackend  = types.BackendJSON
	DefaultLogLevel = "warn"
)

// Overrides carries flag values. Empty fields do not override.
type Overrides struct {
	Backend  string
	DataDir  string
	File     string
	LogLevel string
}

// Load reads config.yaml from configDir using Viper. A missing directory or
// file is not an error. LEDGER_BACKEND, LEDGER_FILE, and LEDGER_LOG_LEVEL
// override the file. data_dir is left to paths.ResolveDataDir so that the
// file value outranks LEDGER_DATA_DIR.
func Load(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{KeyBackend, KeyFile, KeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// Resolve merges v with flag overrides into a validated types.Config. The
// data directory follows paths.ResolveDataDir precedence.
func Resolve(v *viper.Viper, o Overrides) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(o.DataDir, v.GetString(KeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:  firstNonEmpty(o.Backend, v.GetString(KeyBackend)),
		DataDir:  dataDir,
		File:     firstNonEmpty(o.File, v.GetString(KeyFile)),
		LogLevel: firstNonEmpty(o.LogLevel, v.GetString(KeyLogLevel)),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("backend %q: %w", cfg.Backend, err)
	}
	return cfg, nil
}

// WriteDefault creates configDir and writes cfg to config.yaml unless the
// file already exists. It reports the file path and whether it was written.
func WriteDefault(configDir string, cfg types.Config) (string, bool, error) {
	path := filepath.Join(configDir, FileName)

	_, err := os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !os.IsNotExist(err) {
		return path, false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return path, false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return path, false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# ledger configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return path, false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
