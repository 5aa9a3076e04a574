package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulwelden/git-ranger/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by Load when the configuration file does
// not exist. The CLI points the user at `git-ranger init` in that case.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads, parses, and validates a ranger.yaml file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("reading configuration from %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logging.Debug("Config", "loaded configuration from %s (%d providers, %d repos)",
		path, len(cfg.Providers), len(cfg.Repos))
	return cfg, nil
}
