package transport

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/DE-labtory/threshold"
	kitendpoint "github.com/go-kit/kit/endpoint"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const RequestIDHeader = "X-Request-Id"

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 256

func setRequestID(ctx context.Context, r *http.Request) context.Context {
	r.Header.Set(RequestIDHeader, uuid.New().String())
	return ctx
}

func encodeEmpty(context.Context, *http.Request, interface{}) error {
	return nil
}

func encodeRequest(op string, enc kithttp.EncodeRequestFunc) kithttp.EncodeRequestFunc {
	return func(ctx context.Context, r *http.Request, request interface{}) error {
		if err := enc(ctx, r, request); err != nil {
			return &threshold.TransportError{Kind: threshold.RequestBuild, Op: op, Err: err}
		}
		return nil
	}
}

func decodeResponse(op string, newPayload func() interface{}) kithttp.DecodeResponseFunc {
	return func(_ context.Context, resp *http.Response) (interface{}, error) {
		body, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, &threshold.TransportError{Kind: threshold.ConnectionFailed, Op: op, Status: resp.StatusCode, Err: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			return nil, &threshold.TransportError{
				Kind:   threshold.NonSuccessStatus,
				Op:     op,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("%s: %s", resp.Status, body),
			}
		}

		payload := newPayload()
		if err := json.Unmarshal(body, payload); err != nil {
			return nil, &threshold.TransportError{Kind: threshold.ResponseDecode, Op: op, Status: resp.StatusCode, Err: err}
		}
		return payload, nil
	}
}

// classifyMiddleware reports anything the HTTP exchange failed with that
// is not already a TransportError as a connection failure.
func classifyMiddleware(op string) kitendpoint.Middleware {
	return func(next kitendpoint.Endpoint) kitendpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			response, err := next(ctx, request)
			if err == nil {
				return response, nil
			}
			if _, ok := err.(*threshold.TransportError); ok {
				return nil, err
			}
			return nil, &threshold.TransportError{Kind: threshold.ConnectionFailed, Op: op, Err: err}
		}
	}
}

func loggingMiddleware(logger kitlog.Logger, op string) kitendpoint.Middleware {
	return func(next kitendpoint.Endpoint) kitendpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				if err != nil {
					level.Debug(logger).Log("op", op, "took", time.Since(begin), "kind", threshold.Kind(err), "err", err)
					return
				}
				level.Debug(logger).Log("op", op, "took", time.Since(begin))
			}(time.Now())
			return next(ctx, request)
		}
	}
}
