package codec

import (
	gojson "encoding/json"
	"fmt"

	"github.com/DE-labtory/threshold"
)

// EncodeShares writes each share as the pair [index, "<base64>"].
func EncodeShares(shares []threshold.Share) ([]gojson.RawMessage, error) {
	pairs := make([]gojson.RawMessage, 0, len(shares))
	for _, s := range shares {
		pair, err := json.Marshal([]interface{}{
			int(s.Index),
			printable.EncodeToString(s.Share[:]),
		})
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// DecodeShares parses [index, "<base64>"] pairs in the order given. Order
// and uniqueness are left for the aggregation step.
func DecodeShares(pairs []gojson.RawMessage) ([]threshold.Share, error) {
	shares := make([]threshold.Share, 0, len(pairs))
	for i, raw := range pairs {
		share, err := decodeShare(raw)
		if err != nil {
			return nil, fmt.Errorf("decryption share %d: %w", i, err)
		}
		shares = append(shares, share)
	}
	return shares, nil
}

func decodeShare(raw gojson.RawMessage) (threshold.Share, error) {
	var pair []gojson.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return threshold.Share{}, fail(threshold.StructuralParse, err)
	}
	if len(pair) != 2 {
		return threshold.Share{}, fail(threshold.StructuralParse, fmt.Errorf("expected [index, share], got %d elements", len(pair)))
	}

	var index int
	if err := json.Unmarshal(pair[0], &index); err != nil {
		return threshold.Share{}, fail(threshold.StructuralParse, fmt.Errorf("index: %w", err))
	}
	var encoded string
	if err := json.Unmarshal(pair[1], &encoded); err != nil {
		return threshold.Share{}, fail(threshold.StructuralParse, fmt.Errorf("share: %w", err))
	}

	data, err := printableDecode(encoded)
	if err != nil {
		return threshold.Share{}, err
	}
	share := threshold.Share{Index: threshold.Index(index)}
	if len(data) != len(share.Share) {
		return threshold.Share{}, fail(threshold.BinaryDecode, fmt.Errorf("share is %d bytes, want %d", len(data), len(share.Share)))
	}
	copy(share.Share[:], data)
	return share, nil
}
