// Package config loads the tagtrack YAML configuration.
//
// Values come from the embedded default.yml, overridden key by key by
// .tagtrack.yml in the working directory or the file given with --config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ajxudir/tagtrack/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// LocalConfigName is the config file looked up in the working directory.
const LocalConfigName = ".tagtrack.yml"

// DefaultMaxConfigFileSize is the largest config file accepted, in bytes.
const DefaultMaxConfigFileSize int64 = 1 << 20

// LoadConfig loads configuration from the specified path or defaults.
//
// It performs the following operations:
//   - Starts from the embedded defaults
//   - Overlays configPath when given, which must exist
//   - Otherwise overlays .tagtrack.yml from workDir when present
//   - Validates the result
//
// Parameters:
//   - configPath: Path to the config file, or empty to look in workDir
//   - workDir: Directory searched for .tagtrack.yml
//
// Returns:
//   - *Config: The merged configuration
//   - error: When the file cannot be read, is invalid YAML, or fails validation
func LoadConfig(configPath, workDir string) (*Config, error) {
	cfg := loadDefaultConfig()

	path := configPath
	if path == "" {
		local := filepath.Join(workDir, LocalConfigName)
		if _, err := os.Stat(local); err == nil {
			verbose.Infof("Found local config: %s", local)
			path = local
		}
	}

	if path == "" {
		verbose.Info("Using built-in default configuration")
	} else {
		if err := overlayFile(cfg, path, DefaultMaxConfigFileSize); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg.Source = path
		verbose.ConfigLoaded(path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayFile decodes the YAML file at path on top of cfg.
//
// Keys missing from the file keep their current value. Lists replace the
// current list. Unknown keys are rejected so typos do not pass silently.
func overlayFile(cfg *Config, path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxSize {
		return fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return overlayData(cfg, data)
}

func overlayData(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}
