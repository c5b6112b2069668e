package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Init writes the config at Path, copied from the file at path when given,
// otherwise the defaults.
func Init(path string) error {
	if path != "" {
		conf, err := readConfigFile(path)
		if err != nil {
			return err
		}
		return writeConfigFile(conf)
	}

	return writeConfigFile(Default())
}

// readConfigFile reads the config from `filename` into `cfg`.
func readConfigFile(filename string) (*Config, error) {
	conf := Default()

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(conf); err != nil {
		return nil, fmt.Errorf("failure to decode config: %s", err)
	}
	return conf, nil
}

// writeConfigFile writes the config from `cfg` into `filename`.
func writeConfigFile(cfg *Config) error {
	err := os.MkdirAll(filepath.Dir(configPath), 0775)
	if err != nil {
		return err
	}

	if fileExists(configPath) {
		if err := os.Remove(configPath); err != nil {
			return err
		}
	}

	f, err := openFile(configPath, 0660)
	if err != nil {
		return err
	}
	defer f.Close()

	return encode(f, cfg)
}

// encode configuration with YAML
func encode(w io.Writer, value interface{}) error {
	buf, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func openFile(path string, mode os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(f.Name(), mode); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// fileExists check if the file with the given path exits.
func fileExists(filename string) bool {
	fi, err := os.Lstat(filename)
	if fi != nil || (err != nil && !os.IsNotExist(err)) {
		return true
	}
	return false
}
