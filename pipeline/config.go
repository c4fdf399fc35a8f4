package pipeline

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v1"
)

const (
	DefaultMarkProperty = "polar_split"
	DefaultLogLevel     = "info"
	DefaultListen       = ":8888"
)

type Config struct {
	// Number of split workers, 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Property set to true on features that were split.
	MarkProperty string `yaml:"mark_property"`

	// Leave features that needed no split out of the output.
	DropUnchanged bool `yaml:"drop_unchanged"`

	LogLevel string `yaml:"log_level"`
	Listen   string `yaml:"listen"`
}

func NewConfig() *Config {
	return &Config{
		MarkProperty: DefaultMarkProperty,
		LogLevel:     DefaultLogLevel,
		Listen:       DefaultListen,
	}
}

func ReadConfig(configPath string) (*Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfig(f)
}

func ParseConfig(in io.Reader) (*Config, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	defaults := NewConfig()
	if config.MarkProperty == "" {
		config.MarkProperty = defaults.MarkProperty
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.Listen == "" {
		config.Listen = defaults.Listen
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("Invalid worker count: %d", c.Workers)
	}
	_, err := c.Level()
	return err
}

// Level parses the configured log level.
func (c *Config) Level() (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return level, fmt.Errorf("Invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
