package tpke

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/tpke"
)

var ErrInvalidThreshold = errors.New("threshold must be at least 1")
var ErrEmptyKeySet = errors.New("public key set is empty")
var ErrThresholdMismatch = errors.New("threshold does not match commitment degree")

// PublicKeySet is the group public material of a threshold scheme.
// threshold is the number of decryption shares needed to decrypt, one
// more than the degree of the underlying commitment polynomial.
type PublicKeySet struct {
	threshold int
	pks       *tpke.PublicKeySet
}

// NewPublicKeySetFromBytes parses the library serialization of a key set
// that needs th shares to decrypt.
func NewPublicKeySetFromBytes(th int, data []byte) (pks *PublicKeySet, err error) {
	if th < 1 {
		return nil, ErrInvalidThreshold
	}
	if len(data) == 0 {
		return nil, ErrEmptyKeySet
	}

	defer func() {
		if r := recover(); r != nil {
			pks, err = nil, fmt.Errorf("malformed public key set: %v", r)
		}
	}()

	inner, err := tpke.NewPublicKeySetFromBytes(data)
	if err != nil {
		return nil, err
	}
	if th != inner.Threshold()+1 {
		return nil, fmt.Errorf("%w: declared %d, commitment needs %d", ErrThresholdMismatch, th, inner.Threshold()+1)
	}
	return &PublicKeySet{
		threshold: th,
		pks:       inner,
	}, nil
}

// Threshold is the number of distinct shares required to decrypt.
func (p *PublicKeySet) Threshold() int {
	return p.threshold
}

func (p *PublicKeySet) Serialize() []byte {
	return p.pks.Serialize()
}

func (p *PublicKeySet) Equals(other *PublicKeySet) bool {
	if other == nil {
		return false
	}
	return p.threshold == other.threshold && p.pks.Equals(other.pks)
}

// Encrypt encrypts msg against the group public key.
func (p *PublicKeySet) Encrypt(msg []byte) (*Ciphertext, error) {
	ct, err := p.pks.PublicKey().Encrypt(msg)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{ct: ct}, nil
}

// Combine decrypts ct from the given shares. Callers must check that
// shares holds at least Threshold entries: the library does not.
func (p *PublicKeySet) Combine(shares threshold.ShareSet, ct *Ciphertext) (plain []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			plain, err = nil, fmt.Errorf("combination aborted: %v", r)
		}
	}()

	ds := make(map[string]*tpke.DecryptionShare, len(shares))
	for index, share := range shares {
		ds[indexKey(index)] = tpke.NewDecryptionShareFromBytes(share)
	}

	var decryptErr error
	if err := muteStdout(func() {
		plain, decryptErr = p.pks.DecryptUsingStringMap(ds, ct.ct)
	}); err != nil {
		return nil, err
	}
	return plain, decryptErr
}

// stdoutMu serializes every swap of os.Stdout made by muteStdout.
var stdoutMu sync.Mutex

// muteStdout runs f with os.Stdout pointed at the null device. The
// library prints the interpolated decryption point while combining,
// and that point must never reach the terminal.
func muteStdout(f func()) error {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	stdout := os.Stdout
	os.Stdout = devNull
	defer func() { os.Stdout = stdout }()

	f()
	return nil
}

type Ciphertext struct {
	ct *tpke.CipherText
}

func NewCiphertextFromBytes(data []byte) (ct *Ciphertext, err error) {
	if len(data) == 0 {
		return nil, errors.New("ciphertext is empty")
	}

	defer func() {
		if r := recover(); r != nil {
			ct, err = nil, fmt.Errorf("malformed ciphertext: %v", r)
		}
	}()

	return &Ciphertext{ct: tpke.NewCipherTextFromBytes(data)}, nil
}

func (c *Ciphertext) Serialize() []byte {
	return c.ct.Serialize()
}

func (c *Ciphertext) Equals(other *Ciphertext) bool {
	if other == nil {
		return false
	}
	return c.ct.Equals(other.ct)
}

// indexKey is how participant indices are named inside the library.
func indexKey(index threshold.Index) string {
	return strconv.Itoa(int(index))
}
