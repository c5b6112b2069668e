package threshold

import (
	"bytes"
	"sort"
)

// DecryptionShare is one participant's partial decryption in its raw form.
type DecryptionShare [96]byte

// Index identifies the participant that produced a decryption share.
type Index int

// Share is a decryption share tagged with the index of its issuer, as the
// service delivers it.
type Share struct {
	Index Index
	Share DecryptionShare
}

// ShareSet holds at most one decryption share per participant index.
type ShareSet map[Index]DecryptionShare

// NewShareSet collects shares by index. Repeated indices carrying the same
// share collapse into one entry; repeated indices carrying different
// shares are a conflict.
func NewShareSet(shares []Share) (ShareSet, error) {
	set := make(ShareSet, len(shares))
	for _, s := range shares {
		if s.Index < 0 {
			return nil, &InvalidIndexError{Index: s.Index}
		}
		if prev, ok := set[s.Index]; ok {
			if !bytes.Equal(prev[:], s.Share[:]) {
				return nil, &ConflictingShareError{Index: s.Index}
			}
			continue
		}
		set[s.Index] = s.Share
	}
	return set, nil
}

// Indices returns the participant indices in ascending order.
func (s ShareSet) Indices() []Index {
	indices := make([]Index, 0, len(s))
	for i := range s {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })
	return indices
}

// Len is the number of distinct participants in the set.
func (s ShareSet) Len() int {
	return len(s)
}
