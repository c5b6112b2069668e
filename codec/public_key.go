package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/threshold/tpke"
)

var ErrTruncated = errors.New("truncated payload")
var ErrTrailingBytes = errors.New("unexpected trailing bytes")

// maxThreshold bounds the decoded threshold so a corrupt prefix can not
// overflow int.
const maxThreshold = 1 << 16

// publicKeyText is the structural serialization the service embeds in
// its public key response.
type publicKeyText struct {
	Threshold  int    `json:"threshold"`
	Commitment string `json:"commitment"`
}

// MarshalPublicKey writes the binary form of pks:
// uvarint(threshold) | uvarint(len(commitment)) | commitment.
func MarshalPublicKey(pks *tpke.PublicKeySet) []byte {
	commitment := pks.Serialize()
	buf := make([]byte, 0, 2*binary.MaxVarintLen64+len(commitment))
	buf = binary.AppendUvarint(buf, uint64(pks.Threshold()))
	buf = binary.AppendUvarint(buf, uint64(len(commitment)))
	return append(buf, commitment...)
}

// UnmarshalPublicKey parses the output of MarshalPublicKey.
func UnmarshalPublicKey(data []byte) (*tpke.PublicKeySet, error) {
	th, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fail(threshold.BinaryDecode, fmt.Errorf("threshold prefix: %w", ErrTruncated))
	}
	if th == 0 || th > maxThreshold {
		return nil, fail(threshold.BinaryDecode, fmt.Errorf("threshold %d out of range", th))
	}
	data = data[n:]

	size, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fail(threshold.BinaryDecode, fmt.Errorf("length prefix: %w", ErrTruncated))
	}
	data = data[n:]
	if uint64(len(data)) < size {
		return nil, fail(threshold.BinaryDecode, fmt.Errorf("commitment of %d bytes, have %d: %w", size, len(data), ErrTruncated))
	}
	if uint64(len(data)) > size {
		return nil, fail(threshold.BinaryDecode, ErrTrailingBytes)
	}

	pks, err := tpke.NewPublicKeySetFromBytes(int(th), data)
	if err != nil {
		return nil, fail(threshold.BinaryDecode, err)
	}
	return pks, nil
}

// EncodePublicKey returns the printable binary form of pks.
func EncodePublicKey(pks *tpke.PublicKeySet) string {
	return printable.EncodeToString(MarshalPublicKey(pks))
}

// DecodePublicKeyBinary parses the output of EncodePublicKey.
func DecodePublicKeyBinary(s string) (*tpke.PublicKeySet, error) {
	data, err := printableDecode(s)
	if err != nil {
		return nil, err
	}
	return UnmarshalPublicKey(data)
}

// EncodePublicKeyText returns the structural serialization of pks, the
// form the service puts in the pub_key_set field.
func EncodePublicKeyText(pks *tpke.PublicKeySet) (string, error) {
	b, err := json.Marshal(publicKeyText{
		Threshold:  pks.Threshold(),
		Commitment: printable.EncodeToString(pks.Serialize()),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePublicKeyText parses the output of EncodePublicKeyText.
func DecodePublicKeyText(s string) (*tpke.PublicKeySet, error) {
	text := publicKeyText{}
	if err := json.Unmarshal([]byte(s), &text); err != nil {
		return nil, fail(threshold.StructuralParse, err)
	}
	if text.Commitment == "" {
		return nil, fail(threshold.StructuralParse, errors.New("missing commitment"))
	}
	if text.Threshold < 1 || text.Threshold > maxThreshold {
		return nil, fail(threshold.StructuralParse, fmt.Errorf("threshold %d out of range", text.Threshold))
	}

	commitment, err := printableDecode(text.Commitment)
	if err != nil {
		return nil, err
	}
	pks, err := tpke.NewPublicKeySetFromBytes(text.Threshold, commitment)
	if errors.Is(err, tpke.ErrThresholdMismatch) {
		return nil, fail(threshold.StructuralParse, err)
	}
	if err != nil {
		return nil, fail(threshold.BinaryDecode, err)
	}
	return pks, nil
}

// DecodePublicKey parses the service response envelope
// {"pub_key_set": "<text>"}.
func DecodePublicKey(envelope []byte) (*tpke.PublicKeySet, error) {
	payload := threshold.PublicKeyPayload{}
	if err := json.Unmarshal(envelope, &payload); err != nil {
		return nil, fail(threshold.StructuralParse, err)
	}
	return DecodePublicKeyPayload(payload)
}

func DecodePublicKeyPayload(payload threshold.PublicKeyPayload) (*tpke.PublicKeySet, error) {
	if payload.PubKeySet == "" {
		return nil, fail(threshold.StructuralParse, errors.New("missing pub_key_set"))
	}
	return DecodePublicKeyText(payload.PubKeySet)
}
