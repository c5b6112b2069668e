// Package transport talks to the threshold encryption service over HTTP.
//
// Every exchange is a single request without retries. Failures come back
// as *threshold.TransportError with Kind set to connection, status or
// decode.
package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/DE-labtory/threshold"
	kitendpoint "github.com/go-kit/kit/endpoint"
	kitlog "github.com/go-kit/kit/log"
	kithttp "github.com/go-kit/kit/transport/http"
)

const (
	OpPublicKey = "public_key"
	OpEncrypt   = "encrypt"
	OpDecrypt   = "decrypt"
)

var ErrNilPlaintext = errors.New("plaintext is nil")
var ErrEmptyBaseURL = errors.New("service base url is empty")

type options struct {
	httpClient *http.Client
	logger     kitlog.Logger
}

type Option func(*options)

// WithHTTPClient sets the client shared by all endpoints. Its Timeout is
// the only deadline the transport applies on its own.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func WithLogger(logger kitlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Client holds one endpoint per service operation. It keeps no state
// between calls and is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	publicKey kitendpoint.Endpoint
	encrypt   kitendpoint.Endpoint
	decrypt   kitendpoint.Endpoint
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("service base url must be http or https: " + baseURL)
	}

	o := &options{
		httpClient: http.DefaultClient,
		logger:     kitlog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}

	newEndpoint := func(method, op string, enc kithttp.EncodeRequestFunc, dec func() interface{}) kitendpoint.Endpoint {
		tgt := *base
		tgt.Path = base.Path + "/" + op
		e := kithttp.NewClient(
			method,
			&tgt,
			encodeRequest(op, enc),
			decodeResponse(op, dec),
			kithttp.SetClient(o.httpClient),
			kithttp.ClientBefore(setRequestID),
		).Endpoint()
		return kitendpoint.Chain(
			loggingMiddleware(o.logger, op),
			classifyMiddleware(op),
		)(e)
	}

	return &Client{
		baseURL: base,
		publicKey: newEndpoint(http.MethodGet, OpPublicKey, encodeEmpty, func() interface{} {
			return &threshold.PublicKeyPayload{}
		}),
		encrypt: newEndpoint(http.MethodPost, OpEncrypt, kithttp.EncodeJSONRequest, func() interface{} {
			return &threshold.EncryptedPayload{}
		}),
		decrypt: newEndpoint(http.MethodPost, OpDecrypt, kithttp.EncodeJSONRequest, func() interface{} {
			return &threshold.SharesPayload{}
		}),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchPublicKey performs GET /public_key.
func (c *Client) FetchPublicKey(ctx context.Context) (*threshold.PublicKeyPayload, error) {
	resp, err := c.publicKey(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resp.(*threshold.PublicKeyPayload), nil
}

// RequestEncryption performs POST /encrypt with the plaintext as a JSON
// string. Size limits are the service's to enforce.
func (c *Client) RequestEncryption(ctx context.Context, plaintext []byte) (*threshold.EncryptedPayload, error) {
	if plaintext == nil {
		return nil, ErrNilPlaintext
	}
	resp, err := c.encrypt(ctx, threshold.EncryptionRequest{Plaintext: string(plaintext)})
	if err != nil {
		return nil, err
	}
	return resp.(*threshold.EncryptedPayload), nil
}

// RequestDecryption performs POST /decrypt. The shares come back in the
// order the service sent them, duplicates included.
func (c *Client) RequestDecryption(ctx context.Context, ciphertext string) (*threshold.SharesPayload, error) {
	resp, err := c.decrypt(ctx, threshold.DecryptionRequest{Ciphertext: ciphertext})
	if err != nil {
		return nil, err
	}
	return resp.(*threshold.SharesPayload), nil
}
