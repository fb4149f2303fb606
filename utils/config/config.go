package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// RuntimeConfig is the validated, defaulted view of a loaded Config
// that the rest of the program depends on instead of the raw YAML shape.
type RuntimeConfig struct {
	All     Config
	Control Control
}

// Load reads and parses a scenario YAML file from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewRuntimeConfig applies defaults (a TotalSeconds of zero or less
// becomes one day; the seed is used as given) and wraps the parsed
// config for use.
func NewRuntimeConfig(c Config) *RuntimeConfig {
	rc := &RuntimeConfig{All: c, Control: c.Control}
	if rc.Control.Step.TotalSeconds <= 0 {
		rc.Control.Step.TotalSeconds = 24 * 3600
	}
	return rc
}
