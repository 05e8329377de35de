package config

import (
	"os"

	"github.com/gpulab/gemmbench/internal/bench"
	"github.com/gpulab/gemmbench/internal/power"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
	} `yaml:"logger"`
	Benchmark bench.Config `yaml:"benchmark"`
	Metrics   struct {
		ListenAddress string `yaml:"listenAddress"`
	} `yaml:"metrics"`
	Power struct {
		// Apply brackets the benchmark with Limit before the loop and
		// Reset after it. Off by default.
		Apply  bool          `yaml:"apply"`
		Device int           `yaml:"device"`
		Limit  power.Profile `yaml:"limit"`
		Reset  power.Profile `yaml:"reset"`
	} `yaml:"power"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Logger.Verbosity == "" {
		c.Logger.Verbosity = "info"
	}
	c.Benchmark = c.Benchmark.WithDefaults()
	if c.Power.Limit == (power.Profile{}) {
		c.Power.Limit = power.LimitProfile()
	}
	if c.Power.Reset == (power.Profile{}) {
		c.Power.Reset = power.ResetProfile()
	}
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}
