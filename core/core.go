package core

import (
	"context"
	"net/http"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/aggregate"
	"github.com/DE-labtory/threshold/codec"
	"github.com/DE-labtory/threshold/config"
	"github.com/DE-labtory/threshold/log"
	"github.com/DE-labtory/threshold/tpke"
	"github.com/DE-labtory/threshold/transport"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
)

// Client runs the public key, encrypt and decrypt operations against the
// service. Each call is independent: the public key set is fetched again
// every time it is needed, so a rotated key is never combined against.
type Client struct {
	service threshold.Service
	logger  kitlog.Logger
}

func New(service threshold.Service, logger kitlog.Logger) *Client {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Client{
		service: service,
		logger:  logger,
	}
}

// NewFromConfig builds a Client over HTTP for the configured service.
func NewFromConfig(conf *config.Config) (*Client, error) {
	logger := kitlog.With(log.Logger(), "component", "client")
	service, err := transport.NewClient(
		conf.Service.URL,
		transport.WithHTTPClient(&http.Client{Timeout: conf.Service.Timeout}),
		transport.WithLogger(kitlog.With(logger, "component", "transport")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create transport")
	}
	return New(service, logger), nil
}

// FetchPublicKeySet fetches and decodes the current public key set.
func (c *Client) FetchPublicKeySet(ctx context.Context) (*tpke.PublicKeySet, error) {
	payload, err := c.service.FetchPublicKey(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch public key set")
	}
	pks, err := codec.DecodePublicKeyPayload(*payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode public key set")
	}
	level.Debug(c.logger).Log("message", "public key set fetched", "threshold", pks.Threshold())
	return pks, nil
}

// PublicKey returns the printable binary form of the public key set.
func (c *Client) PublicKey(ctx context.Context) (string, error) {
	pks, err := c.FetchPublicKeySet(ctx)
	if err != nil {
		return "", err
	}
	return codec.EncodePublicKey(pks), nil
}

// Encrypt asks the service to encrypt plaintext and returns the printable
// ciphertext, checked to decode.
func (c *Client) Encrypt(ctx context.Context, plaintext string) (string, error) {
	payload, err := c.service.RequestEncryption(ctx, []byte(plaintext))
	if err != nil {
		return "", errors.Wrap(err, "request encryption")
	}
	if _, err := codec.DecodeCiphertext(payload.Ciphertext); err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	return payload.Ciphertext, nil
}

// Decrypt collects decryption shares for ciphertext from the service and
// combines them locally under a freshly fetched public key set.
func (c *Client) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	ct, err := codec.DecodeCiphertext(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}

	payload, err := c.service.RequestDecryption(ctx, ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "request decryption")
	}
	shares, err := codec.DecodeShares(payload.DecryptionShares)
	if err != nil {
		return "", errors.Wrap(err, "decode decryption shares")
	}

	pks, err := c.FetchPublicKeySet(ctx)
	if err != nil {
		return "", err
	}

	level.Debug(c.logger).Log("message", "combining decryption shares", "shares", len(shares), "threshold", pks.Threshold())
	plain, err := aggregate.CombineText(pks, ct, shares)
	if err != nil {
		return "", errors.Wrap(err, "combine decryption shares")
	}
	return plain, nil
}
