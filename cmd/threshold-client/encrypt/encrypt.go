package encrypt

import (
	"errors"
	"fmt"

	"github.com/DE-labtory/threshold/cmd/threshold-client/common"
	"github.com/urfave/cli"
)

func Cmd() cli.Command {
	return cli.Command{
		Name:      "encrypt",
		Usage:     "Encrypt a plaintext message",
		UsageText: "threshold-client encrypt --plaintext <string>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "plaintext, p",
				Usage: "message to encrypt",
			},
		},
		Action: func(c *cli.Context) error {
			if !c.IsSet("plaintext") {
				return errors.New("--plaintext is required")
			}
			return encrypt(c, c.String("plaintext"))
		},
	}
}

func encrypt(c *cli.Context, plaintext string) error {
	client, err := common.NewClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := common.Context()
	defer cancel()

	ciphertext, err := client.Encrypt(ctx, plaintext)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Ciphertext: %s\n", ciphertext)
	return nil
}
