package publickey

import (
	"fmt"

	"github.com/DE-labtory/threshold/cmd/threshold-client/common"
	"github.com/urfave/cli"
)

func Cmd() cli.Command {
	return cli.Command{
		Name:      "public-key",
		Usage:     "Retrieve the public key",
		UsageText: "threshold-client public-key",
		Action: func(c *cli.Context) error {
			return publicKey(c)
		},
	}
}

func publicKey(c *cli.Context) error {
	client, err := common.NewClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := common.Context()
	defer cancel()

	encoded, err := client.PublicKey(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Public Key (Base64): %s\n", encoded)
	return nil
}
