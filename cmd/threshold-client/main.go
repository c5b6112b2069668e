package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/cmd/threshold-client/decrypt"
	"github.com/DE-labtory/threshold/cmd/threshold-client/encrypt"
	initCmd "github.com/DE-labtory/threshold/cmd/threshold-client/init"
	"github.com/DE-labtory/threshold/cmd/threshold-client/publickey"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "threshold-client"
	app.Version = "0.0.1"
	app.Compiled = time.Now()
	app.Usage = "CLI for Threshold Encryption Service"
	app.UsageText = "threshold-client [options] command [command options] [arguments...]"
	app.Writer = out
	app.Authors = []cli.Author{
		{
			Name:  "DE-labtory",
			Email: "de.labtory@gmail.com",
		},
	}
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "set debug mode",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "read configuration from FILE_PATH",
		},
		cli.StringFlag{
			Name:   "url",
			Usage:  "base url of the threshold encryption service",
			EnvVar: "THRESHOLD_SERVICE_URL",
		},
	}

	app.Commands = []cli.Command{}
	app.Commands = append(app.Commands, initCmd.Cmd())
	app.Commands = append(app.Commands, publickey.Cmd())
	app.Commands = append(app.Commands, encrypt.Cmd())
	app.Commands = append(app.Commands, decrypt.Cmd())
	return app
}

func report(w io.Writer, err error) {
	fmt.Fprintf(w, "error[%s]: %s\n", threshold.Kind(err), err)
}
