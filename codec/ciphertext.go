package codec

import (
	"encoding/hex"
	"errors"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/tpke"
)

// ciphertextText is the inner text serialization of a ciphertext.
type ciphertextText struct {
	Ciphertext string `json:"ciphertext"`
}

// EncodeCiphertext wraps ct as JSON text, then base64.
func EncodeCiphertext(ct *tpke.Ciphertext) (string, error) {
	text, err := json.Marshal(ciphertextText{
		Ciphertext: hex.EncodeToString(ct.Serialize()),
	})
	if err != nil {
		return "", err
	}
	return printable.EncodeToString(text), nil
}

// DecodeCiphertext reverses EncodeCiphertext. The base64 layer is removed
// before the JSON layer is parsed; JSON text given directly fails at
// printable-decode.
func DecodeCiphertext(s string) (*tpke.Ciphertext, error) {
	text, err := printableDecode(s)
	if err != nil {
		return nil, err
	}

	inner := ciphertextText{}
	if err := json.Unmarshal(text, &inner); err != nil {
		return nil, fail(threshold.StructuralParse, err)
	}
	if inner.Ciphertext == "" {
		return nil, fail(threshold.StructuralParse, errors.New("missing ciphertext"))
	}

	data, err := hex.DecodeString(inner.Ciphertext)
	if err != nil {
		return nil, fail(threshold.BinaryDecode, err)
	}
	ct, err := tpke.NewCiphertextFromBytes(data)
	if err != nil {
		return nil, fail(threshold.BinaryDecode, err)
	}
	return ct, nil
}
