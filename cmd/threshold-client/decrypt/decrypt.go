package decrypt

import (
	"errors"
	"fmt"

	"github.com/DE-labtory/threshold/cmd/threshold-client/common"
	"github.com/urfave/cli"
)

func Cmd() cli.Command {
	return cli.Command{
		Name:      "decrypt",
		Usage:     "Decrypt a ciphertext",
		UsageText: "threshold-client decrypt --ciphertext <base64>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "ciphertext, c",
				Usage: "ciphertext printed by encrypt",
			},
		},
		Action: func(c *cli.Context) error {
			ciphertext := c.String("ciphertext")
			if ciphertext == "" {
				return errors.New("--ciphertext is required")
			}
			return decrypt(c, ciphertext)
		},
	}
}

func decrypt(c *cli.Context, ciphertext string) error {
	client, err := common.NewClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := common.Context()
	defer cancel()

	plaintext, err := client.Decrypt(ctx, ciphertext)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Decrypted Plaintext: %s\n", plaintext)
	return nil
}
