package tpke

import (
	"errors"

	"github.com/DE-labtory/threshold"
	"github.com/DE-labtory/tpke"
)

var ErrInvalidParticipants = errors.New("participants must not be fewer than threshold")

// KeySet is a dealt key set: the public half plus every participant's
// secret key share. It stands in for the key-holding service.
type KeySet struct {
	participants int
	pkSet        *PublicKeySet
	skSet        *tpke.SecretKeySet
}

// Deal makes a random key set for participants holders where any threshold
// of them can decrypt.
func Deal(th int, participants int) (*KeySet, error) {
	if th < 1 {
		return nil, ErrInvalidThreshold
	}
	if participants < th {
		return nil, ErrInvalidParticipants
	}

	skSet := tpke.RandomSecretKeySet(th - 1)
	return &KeySet{
		participants: participants,
		pkSet: &PublicKeySet{
			threshold: th,
			pks:       skSet.PublicKeySet(),
		},
		skSet: skSet,
	}, nil
}

func (k *KeySet) PublicKeySet() *PublicKeySet {
	return k.pkSet
}

func (k *KeySet) Participants() int {
	return k.participants
}

// DecryptShare computes participant index's decryption share of ct.
func (k *KeySet) DecryptShare(index threshold.Index, ct *Ciphertext) threshold.DecryptionShare {
	sks := k.skSet.KeyShareUsingString(indexKey(index))
	return sks.DecryptShare(ct.ct).Serialize()
}

// DecryptShares computes the share of every participant. Participants
// are numbered from 1: index 0 evaluates the polynomial at zero, which is
// the master secret.
func (k *KeySet) DecryptShares(ct *Ciphertext) []threshold.Share {
	shares := make([]threshold.Share, 0, k.participants)
	for i := 1; i <= k.participants; i++ {
		shares = append(shares, threshold.Share{
			Index: threshold.Index(i),
			Share: k.DecryptShare(threshold.Index(i), ct),
		})
	}
	return shares
}
