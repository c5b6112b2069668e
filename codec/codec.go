// Package codec converts key sets, ciphertexts and decryption shares
// between their native form and the wire.
//
// Two encodings are in play and they are not interchangeable:
//
//	public key set: binary (length prefixed) -> base64
//	ciphertext:     JSON text                -> base64
//
// The ciphertext goes through a text serialization because it is carried
// inside JSON bodies in both directions. Decoding a ciphertext is always
// base64 first, JSON second.
package codec

import (
	"encoding/base64"

	"github.com/DE-labtory/threshold"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var printable = base64.StdEncoding

func printableDecode(s string) ([]byte, error) {
	data, err := printable.DecodeString(s)
	if err != nil {
		return nil, fail(threshold.PrintableDecode, err)
	}
	return data, nil
}

func fail(stage threshold.Stage, err error) error {
	return &threshold.DeserializationError{Stage: stage, Err: err}
}
