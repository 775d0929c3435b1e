package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/rewrite"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Flags and environment
// variables take precedence over the provider and model set here.
type Config struct {
	Provider  string          `yaml:"provider"`
	Model     string          `yaml:"model"`
	Humanizer HumanizerConfig `yaml:"humanizer"`
	Rewrite   rewrite.Config  `yaml:"rewrite"`
}

// HumanizerConfig configures the humanizer client.
type HumanizerConfig struct {
	Model   string        `yaml:"model"`
	Delay   time.Duration `yaml:"delay"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{Rewrite: rewrite.DefaultConfig()}
}

// LoadConfig reads the YAML file at path over DefaultConfig. An empty path
// returns the defaults. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pagesmith.Errorf(pagesmith.ECONFIG, "read config %s: %v", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, pagesmith.Errorf(pagesmith.ECONFIG, "parse config %s: %v", path, err)
	}
	return cfg, nil
}
