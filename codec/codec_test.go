package codec_test

import (
	"encoding/base64"
	"strconv"
	"testing"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/codec"
	"github.com/DE-labtory/threshold/tpke"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*tpke.KeySet, *tpke.Ciphertext) {
	keySet, err := tpke.Deal(3, 5)
	require.NoError(t, err)
	ct, err := keySet.PublicKeySet().Encrypt([]byte("hello world"))
	require.NoError(t, err)
	return keySet, ct
}

func requireStage(t *testing.T, err error, stage threshold.Stage) {
	t.Helper()
	var deserialErr *threshold.DeserializationError
	require.True(t, errors.As(err, &deserialErr), "expected DeserializationError, got %v", err)
	assert.Equal(t, stage, deserialErr.Stage)
}

func requireJSONSafe(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		require.True(t, r > 0x1f && r < 0x7f && r != '"' && r != '\\', "unsafe rune %q", r)
	}
}

func TestPublicKey_BinaryRoundTrip(t *testing.T) {
	keySet, _ := setup(t)

	encoded := codec.EncodePublicKey(keySet.PublicKeySet())
	requireJSONSafe(t, encoded)

	decoded, err := codec.DecodePublicKeyBinary(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Equals(keySet.PublicKeySet()))
	assert.Equal(t, 3, decoded.Threshold())
}

func TestPublicKey_TextRoundTrip(t *testing.T) {
	keySet, _ := setup(t)

	text, err := codec.EncodePublicKeyText(keySet.PublicKeySet())
	require.NoError(t, err)

	decoded, err := codec.DecodePublicKeyText(text)
	require.NoError(t, err)
	assert.True(t, decoded.Equals(keySet.PublicKeySet()))
}

func TestDecodePublicKey_Envelope(t *testing.T) {
	keySet, _ := setup(t)
	text, err := codec.EncodePublicKeyText(keySet.PublicKeySet())
	require.NoError(t, err)

	envelope := []byte(`{"pub_key_set":` + strconv.Quote(text) + `}`)
	decoded, err := codec.DecodePublicKey(envelope)
	require.NoError(t, err)
	assert.True(t, decoded.Equals(keySet.PublicKeySet()))
}

func TestDecodePublicKey_Malformed(t *testing.T) {
	keySet, _ := setup(t)
	binary := codec.MarshalPublicKey(keySet.PublicKeySet())
	mismatched := `{"threshold":1,"commitment":"` + base64.StdEncoding.EncodeToString(keySet.PublicKeySet().Serialize()) + `"}`

	tests := map[string]struct {
		decode func() error
		stage  threshold.Stage
	}{
		"envelope is not json": {
			decode: func() error { _, err := codec.DecodePublicKey([]byte("not json")); return err },
			stage:  threshold.StructuralParse,
		},
		"envelope without field": {
			decode: func() error { _, err := codec.DecodePublicKey([]byte(`{}`)); return err },
			stage:  threshold.StructuralParse,
		},
		"inner text is not json": {
			decode: func() error { _, err := codec.DecodePublicKeyText("{"); return err },
			stage:  threshold.StructuralParse,
		},
		"inner threshold missing": {
			decode: func() error { _, err := codec.DecodePublicKeyText(`{"commitment":"AAAA"}`); return err },
			stage:  threshold.StructuralParse,
		},
		"commitment alphabet": {
			decode: func() error { _, err := codec.DecodePublicKeyText(`{"threshold":3,"commitment":"!!!!"}`); return err },
			stage:  threshold.PrintableDecode,
		},
		"binary padding": {
			decode: func() error { _, err := codec.DecodePublicKeyBinary("AAA"); return err },
			stage:  threshold.PrintableDecode,
		},
		"binary truncated": {
			decode: func() error {
				_, err := codec.DecodePublicKeyBinary(base64.StdEncoding.EncodeToString(binary[:len(binary)-1]))
				return err
			},
			stage: threshold.BinaryDecode,
		},
		"binary trailing bytes": {
			decode: func() error {
				_, err := codec.DecodePublicKeyBinary(base64.StdEncoding.EncodeToString(append(append([]byte{}, binary...), 0)))
				return err
			},
			stage: threshold.BinaryDecode,
		},
		"binary empty": {
			decode: func() error { _, err := codec.DecodePublicKeyBinary(""); return err },
			stage:  threshold.BinaryDecode,
		},
		"binary threshold below degree": {
			decode: func() error {
				_, err := codec.UnmarshalPublicKey(append([]byte{1}, binary[1:]...))
				return err
			},
			stage: threshold.BinaryDecode,
		},
		"binary threshold above degree": {
			decode: func() error {
				_, err := codec.UnmarshalPublicKey(append([]byte{4}, binary[1:]...))
				return err
			},
			stage: threshold.BinaryDecode,
		},
		"inner threshold below degree": {
			decode: func() error { _, err := codec.DecodePublicKeyText(mismatched); return err },
			stage:  threshold.StructuralParse,
		},
		"binary zero threshold": {
			decode: func() error {
				_, err := codec.UnmarshalPublicKey(append([]byte{0}, binary[1:]...))
				return err
			},
			stage: threshold.BinaryDecode,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			requireStage(t, test.decode(), test.stage)
		})
	}
}

func TestCiphertext_RoundTrip(t *testing.T) {
	_, ct := setup(t)

	encoded, err := codec.EncodeCiphertext(ct)
	require.NoError(t, err)
	requireJSONSafe(t, encoded)

	decoded, err := codec.DecodeCiphertext(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Equals(ct))
	assert.Equal(t, ct.Serialize(), decoded.Serialize())
}

func TestDecodeCiphertext_ReversedOrderFails(t *testing.T) {
	_, ct := setup(t)
	encoded, err := codec.EncodeCiphertext(ct)
	require.NoError(t, err)

	inner, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	_, err = codec.DecodeCiphertext(string(inner))
	requireStage(t, err, threshold.PrintableDecode)
}

func TestDecodeCiphertext_Malformed(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString

	tests := map[string]struct {
		input string
		stage threshold.Stage
	}{
		"invalid alphabet": {input: "@@not-base64@@", stage: threshold.PrintableDecode},
		"invalid padding":  {input: "eyJ", stage: threshold.PrintableDecode},
		"not json inside":  {input: b64([]byte("plain text")), stage: threshold.StructuralParse},
		"missing field":    {input: b64([]byte(`{}`)), stage: threshold.StructuralParse},
		"binary not hex":   {input: b64([]byte(`{"ciphertext":"zz"}`)), stage: threshold.BinaryDecode},
		"empty hex":        {input: b64([]byte(`{"ciphertext":""}`)), stage: threshold.StructuralParse},
		"double wrapped":   {input: b64([]byte(b64([]byte(`{"ciphertext":"00"}`)))), stage: threshold.StructuralParse},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.DecodeCiphertext(test.input)
			requireStage(t, err, test.stage)
		})
	}
}

func TestShares_RoundTrip(t *testing.T) {
	keySet, ct := setup(t)
	shares := keySet.DecryptShares(ct)

	pairs, err := codec.EncodeShares(shares)
	require.NoError(t, err)
	require.Len(t, pairs, len(shares))

	decoded, err := codec.DecodeShares(pairs)
	require.NoError(t, err)
	assert.Equal(t, shares, decoded)
}

func TestDecodeShares_Malformed(t *testing.T) {
	var share threshold.DecryptionShare
	good := base64.StdEncoding.EncodeToString(share[:])

	tests := map[string]struct {
		pair  string
		stage threshold.Stage
	}{
		"not an array":     {pair: `{"index":1}`, stage: threshold.StructuralParse},
		"wrong arity":      {pair: `[1]`, stage: threshold.StructuralParse},
		"index not number": {pair: `["1", "` + good + `"]`, stage: threshold.StructuralParse},
		"share not string": {pair: `[1, 2]`, stage: threshold.StructuralParse},
		"share alphabet":   {pair: `[1, "%%%%"]`, stage: threshold.PrintableDecode},
		"share too short":  {pair: `[1, "AAAA"]`, stage: threshold.BinaryDecode},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			payload := threshold.SharesPayload{}
			payload.DecryptionShares = append(payload.DecryptionShares, []byte(test.pair))
			_, err := codec.DecodeShares(payload.DecryptionShares)
			requireStage(t, err, test.stage)
		})
	}
}
