package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  uint32 `yaml:"version"`
	Creator  string `yaml:"creator"`
	Encoding string `yaml:"encoding"`
	LogLevel string `yaml:"log_level"`
	Listen   string `yaml:"listen"`
}

func Default() *Config {
	return &Config{
		Version:  uint32(FBX2019),
		Creator:  creator,
		Encoding: GetEncoding().String(),
		LogLevel: "info",
		Listen:   ":8000",
	}
}

// Parse decodes yaml on top of Default, so missing keys keep their defaults
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config")
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}
	return Parse(data)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Apply sets process-wide settings. Log level is applied by the caller
func (c *Config) Apply() error {
	if err := SetFBXVersion(FBXVersion(c.Version)); err != nil {
		return err
	}
	if c.Creator != "" {
		SetCreator(c.Creator)
	}
	if c.Encoding != "" {
		if err := SetEncoding(c.Encoding); err != nil {
			return err
		}
	}
	return nil
}
