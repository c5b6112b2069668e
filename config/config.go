package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Service struct {
	// URL is the base address of the threshold encryption service.
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type Log struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

type Config struct {
	Service Service `yaml:"service" mapstructure:"service"`
	Log     Log     `yaml:"log" mapstructure:"log"`
}

func Default() *Config {
	return &Config{
		Service: Service{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Log: Log{
			Level: "info",
			File:  "",
		},
	}
}

var (
	once    sync.Once
	loaded  *Config
	loadErr error
)

var configPath = os.Getenv("HOME") + "/.threshold-client/config.yml"

func Path() string {
	return configPath
}

// Get reads the config at Path once per process. A missing file leaves
// the defaults in place. Every call returns a fresh copy, so callers may
// apply overrides to it.
func Get() (*Config, error) {
	once.Do(func() {
		if !fileExists(configPath) {
			loaded = Default()
			return
		}
		loaded, loadErr = Load(configPath)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	conf := *loaded
	return &conf, nil
}

// Load reads the config at path over the defaults. The file must exist.
func Load(path string) (*Config, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("config %s: %w", path, os.ErrNotExist)
	}

	conf := Default()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %s", path, err)
	}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("cannot decode config %s: %s", path, err)
	}
	if conf.Service.URL == "" {
		return nil, fmt.Errorf("config %s: service.url is empty", path)
	}
	return conf, nil
}
