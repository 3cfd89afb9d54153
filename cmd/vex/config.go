package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk CLI configuration. All fields are optional;
// flags override whatever the file sets.
type fileConfig struct {
	Path         string `yaml:"path"`
	Dimensions   int    `yaml:"dimensions"`
	Column       string `yaml:"column"`
	DistanceType string `yaml:"distance_type"`
	LogLevel     string `yaml:"log_level"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Path:         "vex.db",
		DistanceType: "cosine",
		LogLevel:     "info",
	}
}

// loadConfig reads path if given, otherwise returns defaults. A missing
// explicit file is an error; no file at all is not.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
