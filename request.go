package threshold

import (
	"context"
	"encoding/json"
)

// Payloads exchanged with the threshold encryption service.

type PublicKeyPayload struct {
	// PubKeySet is the textual serialization of the key set.
	PubKeySet string `json:"pub_key_set"`
}

type EncryptionRequest struct {
	Plaintext string `json:"plaintext"`
}

type EncryptedPayload struct {
	Ciphertext string `json:"ciphertext"`
}

type DecryptionRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// SharesPayload keeps every [index, share] pair undecoded; the codec
// decides whether each pair is well formed.
type SharesPayload struct {
	DecryptionShares []json.RawMessage `json:"decryption_shares"`
}

// Service is the threshold encryption service as the client sees it.
type Service interface {
	FetchPublicKey(ctx context.Context) (*PublicKeyPayload, error)
	RequestEncryption(ctx context.Context, plaintext []byte) (*EncryptedPayload, error)
	RequestDecryption(ctx context.Context, ciphertext string) (*SharesPayload, error)
}
