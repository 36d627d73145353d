package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmpack-labs/dmpack/internal/branding"
	"github.com/dmpack-labs/dmpack/internal/logger"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyLogLevel  = "log_level"
	KeyExportDir = "export_dir"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyLogLevel, KeyExportDir}

// ErrUnknownKey is returned for keys not listed in Keys.
var ErrUnknownKey = errors.New("unknown config key")

// IsKnownKey reports whether key is listed in Keys.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Check validates value for key.
func Check(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w %q (known keys: %s)", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}
	switch key {
	case KeyLogLevel:
		if _, ok := logger.ParseLevel(value); !ok {
			return fmt.Errorf("invalid %s %q: want debug, info, warn or error", key, value)
		}
	case KeyExportDir:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// Default values applied before the config file and environment are read.
const (
	DefaultLogLevel  = "info"
	DefaultExportDir = "dist"
)

// Dir returns the path to the config directory (~/.dmpack/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.dmpack/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyExportDir, DefaultExportDir)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// ExportDir returns the default output directory for built deliverables.
func ExportDir() string {
	return viper.GetString(KeyExportDir)
}

// Set validates a config key-value pair, then writes it and saves the
// config file.
func Set(key, value string) error {
	if err := Check(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
