package tpke

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/DE-labtory/threshold"
)

func TestDeal(t *testing.T) {
	var prev *PublicKeySet
	for i := 0; i < 10; i++ {
		keySet, err := Deal(3, 5)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if keySet.PublicKeySet().Threshold() != 3 {
			t.Fatalf("expected threshold is %d, but got %d", 3, keySet.PublicKeySet().Threshold())
		}
		if prev != nil && prev.Equals(keySet.PublicKeySet()) {
			t.Fatalf("key set must be different each case.")
		}
		prev = keySet.PublicKeySet()
	}
}

func TestDeal_InvalidParameters(t *testing.T) {
	if _, err := Deal(0, 5); err != ErrInvalidThreshold {
		t.Fatalf("expected %v, but got %v", ErrInvalidThreshold, err)
	}
	if _, err := Deal(4, 3); err != ErrInvalidParticipants {
		t.Fatalf("expected %v, but got %v", ErrInvalidParticipants, err)
	}
}

func TestPublicKeySet_Encrypt(t *testing.T) {
	keySet, err := Deal(3, 5)
	if err != nil {
		t.Fatalf("%v", err)
	}

	msg := []byte("honeyBadger BFT")
	var prev *Ciphertext
	for i := 0; i < 10; i++ {
		ct, err := keySet.PublicKeySet().Encrypt(msg)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if prev != nil && prev.Equals(ct) {
			t.Fatalf("a ciphertext must be different in each case.")
		}
		prev = ct
	}
}

func TestPublicKeySet_SerializeRoundTrip(t *testing.T) {
	keySet, err := Deal(3, 5)
	if err != nil {
		t.Fatalf("%v", err)
	}

	pks, err := NewPublicKeySetFromBytes(3, keySet.PublicKeySet().Serialize())
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !pks.Equals(keySet.PublicKeySet()) {
		t.Fatalf("public key set are different")
	}
}

func TestNewPublicKeySetFromBytes_Invalid(t *testing.T) {
	if _, err := NewPublicKeySetFromBytes(0, []byte{1}); err != ErrInvalidThreshold {
		t.Fatalf("expected %v, but got %v", ErrInvalidThreshold, err)
	}
	if _, err := NewPublicKeySetFromBytes(3, nil); err != ErrEmptyKeySet {
		t.Fatalf("expected %v, but got %v", ErrEmptyKeySet, err)
	}
}

func TestNewPublicKeySetFromBytes_ThresholdMismatch(t *testing.T) {
	keySet, err := Deal(3, 5)
	if err != nil {
		t.Fatalf("%v", err)
	}

	for _, th := range []int{1, 2, 4} {
		_, err := NewPublicKeySetFromBytes(th, keySet.PublicKeySet().Serialize())
		if !errors.Is(err, ErrThresholdMismatch) {
			t.Fatalf("threshold %d: expected %v, but got %v", th, ErrThresholdMismatch, err)
		}
	}
}

func TestKeySet_DecryptShares_IndicesStartAtOne(t *testing.T) {
	keySet, err := Deal(2, 4)
	if err != nil {
		t.Fatalf("%v", err)
	}
	ct, err := keySet.PublicKeySet().Encrypt([]byte("DE-labtory"))
	if err != nil {
		t.Fatalf("%v", err)
	}

	shares := keySet.DecryptShares(ct)
	if len(shares) != 4 {
		t.Fatalf("expected %d shares, but got %d", 4, len(shares))
	}
	for i, share := range shares {
		if share.Index != threshold.Index(i+1) {
			t.Fatalf("expected index %d, but got %d", i+1, share.Index)
		}
	}
}

func TestCiphertext_SerializeRoundTrip(t *testing.T) {
	keySet, err := Deal(2, 3)
	if err != nil {
		t.Fatalf("%v", err)
	}
	ct, err := keySet.PublicKeySet().Encrypt([]byte("DE-labtory"))
	if err != nil {
		t.Fatalf("%v", err)
	}

	decoded, err := NewCiphertextFromBytes(ct.Serialize())
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(decoded.Serialize(), ct.Serialize()) {
		t.Fatalf("ciphertext bytes are different")
	}
}

func TestPublicKeySet_Combine(t *testing.T) {
	keySet, err := Deal(3, 5)
	if err != nil {
		t.Fatalf("%v", err)
	}

	msg := []byte("DE-labtory")
	ct, err := keySet.PublicKeySet().Encrypt(msg)
	if err != nil {
		t.Fatalf("encryption failed : %v", err)
	}

	shares := threshold.ShareSet{}
	for _, i := range []threshold.Index{4, 1, 3} {
		shares[i] = keySet.DecryptShare(i, ct)
	}

	result, err := keySet.PublicKeySet().Combine(shares, ct)
	if err != nil {
		t.Fatalf("combine failed : %v", err)
	}
	if !bytes.Equal(result, msg) {
		t.Fatalf("expected result is %s, but got %s", msg, result)
	}
}

func TestPublicKeySet_Combine_WritesNothingToStdout(t *testing.T) {
	keySet, err := Deal(3, 5)
	if err != nil {
		t.Fatalf("%v", err)
	}
	ct, err := keySet.PublicKeySet().Encrypt([]byte("DE-labtory"))
	if err != nil {
		t.Fatalf("%v", err)
	}
	shares := threshold.ShareSet{}
	for _, share := range keySet.DecryptShares(ct)[:3] {
		shares[share.Index] = share.Share
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("%v", err)
	}
	captured := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		captured <- b
	}()

	stdout := os.Stdout
	os.Stdout = w
	_, combineErr := keySet.PublicKeySet().Combine(shares, ct)
	restored := os.Stdout
	os.Stdout = stdout
	w.Close()
	out := <-captured

	if combineErr != nil {
		t.Fatalf("combine failed : %v", combineErr)
	}
	if len(out) != 0 {
		t.Fatalf("expected no output, but got %q", out)
	}
	if restored != w {
		t.Fatalf("os.Stdout was not restored")
	}
}
