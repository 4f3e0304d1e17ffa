package keycodec

import "bytes"

// PairKeySize is the byte length of a pair key.
const PairKeySize = 2 * CanonicalSize

// PairKey is the order-independent concatenation of two canonical identifiers.
type PairKey [PairKeySize]byte

// OrderPair returns a and b sorted by their canonical bytes. Identical
// identifiers are returned in input order.
func OrderPair(a, b Identifier) (Identifier, Identifier) {
	ab, bb := a.Bytes(), b.Bytes()
	if bytes.Compare(ab[:], bb[:]) > 0 {
		return b, a
	}
	return a, b
}

// NewPairKey builds the canonical pair key; NewPairKey(a, b) == NewPairKey(b, a).
func NewPairKey(a, b Identifier) PairKey {
	first, second := OrderPair(a, b)
	fb, sb := first.Bytes(), second.Bytes()

	var pk PairKey
	copy(pk[:CanonicalSize], fb[:])
	copy(pk[CanonicalSize:], sb[:])
	return pk
}

// Tokens splits the key back into its ordered identifiers.
func (pk PairKey) Tokens() (Identifier, Identifier, error) {
	first, err := DecodeIdentifier(pk[:CanonicalSize])
	if err != nil {
		return Identifier{}, Identifier{}, err
	}
	second, err := DecodeIdentifier(pk[CanonicalSize:])
	if err != nil {
		return Identifier{}, Identifier{}, err
	}
	return first, second, nil
}
