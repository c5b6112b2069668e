package init

import (
	"path/filepath"

	"github.com/DE-labtory/threshold/config"
	"github.com/kyokomi/emoji"
	"github.com/urfave/cli"
)

func Cmd() cli.Command {
	return cli.Command{
		Name:      "init",
		Usage:     "Initialize threshold-client configuration",
		UsageText: "threshold-client init [--from FILE_PATH]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "from",
				Usage: "Load configuration file from FILE_PATH",
			},
		},
		Action: func(c *cli.Context) error {
			from := c.String("from")
			if from == "" {
				from = c.Args().First()
			}
			return initClient(from)
		},
	}
}

func initClient(configPath string) error {
	if err := config.Init(configPath); err != nil {
		emoji.Printf(":broken_heart: initialize failed with error: %s\n", err)
		return err
	}
	emoji.Printf(":beer: successfully initialized at %s\n", filepath.Dir(config.Path()))
	return nil
}
