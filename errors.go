package threshold

import (
	"fmt"

	"github.com/pkg/errors"
)

type TransportErrorKind string

const (
	// the request never got a response
	ConnectionFailed TransportErrorKind = "connection"
	// the service answered with a status outside 2xx
	NonSuccessStatus TransportErrorKind = "status"
	// the response body was not the expected JSON
	ResponseDecode TransportErrorKind = "decode"
	// the request could not be built
	RequestBuild TransportErrorKind = "request"
)

// TransportError reports a failed exchange with the service. It is never
// retried.
type TransportError struct {
	Kind   TransportErrorKind
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case NonSuccessStatus:
		return fmt.Sprintf("transport %s: service responded with status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("transport %s: %s failed: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Stage string

const (
	PrintableDecode Stage = "printable-decode"
	StructuralParse Stage = "structural-parse"
	BinaryDecode    Stage = "binary-decode"
)

// DeserializationError reports malformed wire data. Stage tells transport
// corruption (printable-decode) apart from a format or version mismatch
// (structural-parse, binary-decode).
type DeserializationError struct {
	Stage Stage
	Err   error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialization failed at %s: %v", e.Stage, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// ConflictingShareError reports two different shares under one index.
type ConflictingShareError struct {
	Index Index
}

func (e *ConflictingShareError) Error() string {
	return fmt.Sprintf("conflicting decryption shares for index %d", e.Index)
}

// InvalidIndexError reports an index no participant can hold.
type InvalidIndexError struct {
	Index Index
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid participant index %d", e.Index)
}

type InsufficientSharesError struct {
	Have int
	Need int
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient decryption shares: have %d, need %d", e.Have, e.Need)
}

// CombinationError reports that the cryptosystem rejected the shares or the
// ciphertext. The underlying failure carries no further detail.
type CombinationError struct {
	Err error
}

func (e *CombinationError) Error() string {
	return fmt.Sprintf("combining decryption shares failed: %v", e.Err)
}

func (e *CombinationError) Unwrap() error {
	return e.Err
}

// EncodingError reports combined plaintext that is not valid text.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("plaintext is not valid text: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Kind names the failure class of err, for reporting.
func Kind(err error) string {
	var (
		transportErr    *TransportError
		deserialErr     *DeserializationError
		conflictErr     *ConflictingShareError
		indexErr        *InvalidIndexError
		insufficientErr *InsufficientSharesError
		combineErr      *CombinationError
		encodingErr     *EncodingError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &transportErr):
		return "transport/" + string(transportErr.Kind)
	case errors.As(err, &deserialErr):
		return "deserialization/" + string(deserialErr.Stage)
	case errors.As(err, &conflictErr):
		return "conflicting-share"
	case errors.As(err, &indexErr):
		return "invalid-index"
	case errors.As(err, &insufficientErr):
		return "insufficient-shares"
	case errors.As(err, &combineErr):
		return "combination"
	case errors.As(err, &encodingErr):
		return "encoding"
	default:
		return "unknown"
	}
}
