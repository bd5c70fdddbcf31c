package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds display defaults from .agentstream.yaml. Flags override it.
type Config struct {
	ShowThinking     bool `yaml:"show_thinking"`
	ShowMedia        bool `yaml:"show_media"`
	MaxArgumentChars int  `yaml:"max_argument_chars"`
	MaxResultChars   int  `yaml:"max_result_chars"`
}

func defaultDisplayConfig() *Config {
	return &Config{
		ShowMedia:        true,
		MaxArgumentChars: 120,
		MaxResultChars:   200,
	}
}

// loadConfig reads the config at path, or .agentstream.yaml in the working
// directory when path is empty. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ".agentstream.yaml"
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return defaultDisplayConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := defaultDisplayConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
