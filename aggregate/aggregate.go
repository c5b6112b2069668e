// Package aggregate reconstructs plaintext from decryption shares.
//
// Shares arrive as the service sent them: unsorted and possibly repeated.
// Combine checks them before handing anything to the cryptosystem, whose
// combination procedure neither detects duplicates nor tolerates too few
// shares.
package aggregate

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/tpke"
)

var ErrNilCiphertext = errors.New("ciphertext is nil")
var ErrNilPublicKeySet = errors.New("public key set is nil")

// KeySet is the part of a public key set that combination needs.
// *tpke.PublicKeySet implements it.
type KeySet interface {
	Threshold() int
	Combine(shares threshold.ShareSet, ct *tpke.Ciphertext) ([]byte, error)
}

// Combine decrypts ct with shares issued under pks.
func Combine(pks KeySet, ct *tpke.Ciphertext, shares []threshold.Share) ([]byte, error) {
	if pks == nil {
		return nil, ErrNilPublicKeySet
	}
	if ct == nil {
		return nil, ErrNilCiphertext
	}

	set, err := threshold.NewShareSet(shares)
	if err != nil {
		return nil, err
	}
	return CombineSet(pks, ct, set)
}

// CombineSet decrypts ct with a share set that is already unique by index.
func CombineSet(pks KeySet, ct *tpke.Ciphertext, set threshold.ShareSet) ([]byte, error) {
	for index := range set {
		if index < 0 {
			return nil, &threshold.InvalidIndexError{Index: index}
		}
	}
	if set.Len() < pks.Threshold() {
		return nil, &threshold.InsufficientSharesError{Have: set.Len(), Need: pks.Threshold()}
	}

	plain, err := pks.Combine(set, ct)
	if err != nil {
		return nil, &threshold.CombinationError{Err: err}
	}
	return plain, nil
}

// CombineText is Combine for payloads that must be text.
func CombineText(pks KeySet, ct *tpke.Ciphertext, shares []threshold.Share) (string, error) {
	plain, err := Combine(pks, ct, shares)
	if err != nil {
		return "", err
	}
	if err := ValidateText(plain); err != nil {
		return "", err
	}
	return string(plain), nil
}

// ValidateText accepts UTF-8 without control characters other than tab,
// newline and carriage return.
func ValidateText(plain []byte) error {
	if !utf8.Valid(plain) {
		return &threshold.EncodingError{Err: errors.New("invalid utf-8")}
	}
	for i, r := range string(plain) {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return &threshold.EncodingError{Err: fmt.Errorf("control character %U at byte %d", r, i)}
		}
	}
	return nil
}
