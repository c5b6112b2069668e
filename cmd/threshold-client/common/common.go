package common

import (
	"context"
	"os"
	"os/signal"

	"github.com/DE-labtory/threshold/config"
	"github.com/DE-labtory/threshold/core"
	"github.com/DE-labtory/threshold/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// LoadConfig reads the config named by the global --config flag, or the
// one at config.Path when the flag is absent, and applies the --url and
// --debug overrides. A file named by --config must exist.
func LoadConfig(c *cli.Context) (*config.Config, error) {
	var conf *config.Config
	var err error
	if path := c.GlobalString("config"); path != "" {
		conf, err = config.Load(path)
	} else {
		conf, err = config.Get()
	}
	if err != nil {
		return nil, err
	}

	if url := c.GlobalString("url"); url != "" {
		conf.Service.URL = url
	}
	if c.GlobalBool("debug") {
		conf.Log.Level = "debug"
	}
	return conf, nil
}

// NewClient sets up logging and builds a client from the loaded config.
func NewClient(c *cli.Context) (*core.Client, error) {
	conf, err := LoadConfig(c)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := log.SetLevel(conf.Log.Level); err != nil {
		return nil, err
	}
	if conf.Log.File != "" {
		if err := log.EnableFileLogger(true, conf.Log.File); err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
	}

	log.Debug("message", "client configured", "url", conf.Service.URL, "timeout", conf.Service.Timeout)
	return core.NewFromConfig(conf)
}

// Context is cancelled on interrupt.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
