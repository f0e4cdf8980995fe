package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "prospector.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/prospector"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader resolves the effective configuration from layered sources.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves configuration with later layers overriding earlier ones:
// defaults, then the user config (~/.config/prospector/config.yaml), then a
// project prospector.yaml found in the working directory or any parent.
// The merged result is validated before being returned.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		l.mergeLayer(config, path, "user")
	}
	if path := l.findProjectConfig(); path != "" {
		l.mergeLayer(config, path, "project")
	} else {
		l.logger.Debug("No project config found")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("resolved config invalid: %w", err)
	}

	return config, nil
}

// mergeLayer overlays one config file onto the accumulated config. A missing
// file is normal; any other load failure is surfaced as a warning and the
// layer is skipped.
func (l *Loader) mergeLayer(config *Config, path, layer string) {
	overlay, err := LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Skipping unreadable config layer",
				slog.String("layer", layer),
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return
	}
	config.Merge(overlay)
	l.logger.Debug("Loaded config layer", slog.String("layer", layer), slog.String("path", path))
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine user home directory")
	}

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", path))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks from the working directory to the filesystem root
// looking for prospector.yaml.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
