package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/codec"
	"github.com/DE-labtory/threshold/tpke"
	kitendpoint "github.com/go-kit/kit/endpoint"
	kitlog "github.com/go-kit/kit/log"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"go.uber.org/atomic"
)

type ErrIllegalArgument struct {
	Reason string
}

func (e ErrIllegalArgument) Error() string {
	return fmt.Sprintf("err illegal argument: %s", e.Reason)
}

// Service simulates the threshold encryption service with a dealt key set
// whose secret shares it holds itself.
type Service struct {
	logger kitlog.Logger
	keySet *tpke.KeySet

	// Shares chooses which shares /decrypt returns, all of them when nil.
	Shares func(all []threshold.Share) []threshold.Share
	// Ciphertext rewrites the ciphertext /encrypt returns.
	Ciphertext func(encoded string) string

	publicKeyCount *atomic.Int64
	decryptCount   *atomic.Int64
}

func NewService(keySet *tpke.KeySet, logger kitlog.Logger) *Service {
	return &Service{
		logger:         logger,
		keySet:         keySet,
		publicKeyCount: atomic.NewInt64(0),
		decryptCount:   atomic.NewInt64(0),
	}
}

// NewDealtService deals a fresh key set where any th of participants
// shares decrypt.
func NewDealtService(th, participants int, logger kitlog.Logger) (*Service, error) {
	keySet, err := tpke.Deal(th, participants)
	if err != nil {
		return nil, err
	}
	return NewService(keySet, logger), nil
}

func (s *Service) KeySet() *tpke.KeySet {
	return s.keySet
}

// PublicKeyCount is how many times /public_key was served.
func (s *Service) PublicKeyCount() int64 {
	return s.publicKeyCount.Load()
}

func (s *Service) DecryptCount() int64 {
	return s.decryptCount.Load()
}

func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(s.logger),
		kithttp.ServerErrorEncoder(encodeError),
	}

	r.Methods("GET").Path("/healthz").HandlerFunc(func(w http.ResponseWriter, request *http.Request) {
		s.logger.Log("method", "GET", "endpoint", "healthz")
		w.Write([]byte("up"))
	})

	r.Methods("GET").Path("/public_key").Handler(kithttp.NewServer(
		s.logged("public_key", s.makePublicKeyEndpoint()),
		decodeNothing,
		encodeResponse,
		opts...,
	))
	r.Methods("POST").Path("/encrypt").Handler(kithttp.NewServer(
		s.logged("encrypt", s.makeEncryptEndpoint()),
		decodeEncryptionRequest,
		encodeResponse,
		opts...,
	))
	r.Methods("POST").Path("/decrypt").Handler(kithttp.NewServer(
		s.logged("decrypt", s.makeDecryptEndpoint()),
		decodeDecryptionRequest,
		encodeResponse,
		opts...,
	))
	return r
}

func (s *Service) logged(name string, next kitendpoint.Endpoint) kitendpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		s.logger.Log("endpoint", name)
		response, err := next(ctx, request)
		if err != nil {
			s.logger.Log("endpoint", name, "err", err.Error())
		}
		return response, err
	}
}

func (s *Service) makePublicKeyEndpoint() kitendpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		s.publicKeyCount.Inc()
		text, err := codec.EncodePublicKeyText(s.keySet.PublicKeySet())
		if err != nil {
			return nil, err
		}
		return threshold.PublicKeyPayload{PubKeySet: text}, nil
	}
}

func (s *Service) makeEncryptEndpoint() kitendpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(threshold.EncryptionRequest)
		ct, err := s.keySet.PublicKeySet().Encrypt([]byte(req.Plaintext))
		if err != nil {
			return nil, err
		}
		encoded, err := codec.EncodeCiphertext(ct)
		if err != nil {
			return nil, err
		}
		if s.Ciphertext != nil {
			encoded = s.Ciphertext(encoded)
		}
		return threshold.EncryptedPayload{Ciphertext: encoded}, nil
	}
}

func (s *Service) makeDecryptEndpoint() kitendpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		s.decryptCount.Inc()
		req := request.(threshold.DecryptionRequest)
		ct, err := codec.DecodeCiphertext(req.Ciphertext)
		if err != nil {
			return nil, ErrIllegalArgument{err.Error()}
		}

		shares := s.keySet.DecryptShares(ct)
		rand.Shuffle(len(shares), func(i, j int) { shares[i], shares[j] = shares[j], shares[i] })
		if s.Shares != nil {
			shares = s.Shares(shares)
		}

		pairs, err := codec.EncodeShares(shares)
		if err != nil {
			return nil, err
		}
		return threshold.SharesPayload{DecryptionShares: pairs}, nil
	}
}

func decodeNothing(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

func decodeEncryptionRequest(_ context.Context, r *http.Request) (interface{}, error) {
	body := threshold.EncryptionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, ErrIllegalArgument{err.Error()}
	}
	return body, nil
}

func decodeDecryptionRequest(_ context.Context, r *http.Request) (interface{}, error) {
	body := threshold.DecryptionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, ErrIllegalArgument{err.Error()}
	}
	if body.Ciphertext == "" {
		return nil, ErrIllegalArgument{"ciphertext is empty"}
	}
	return body, nil
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// encode errors from business-logic
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch err.(type) {
	case ErrIllegalArgument:
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
