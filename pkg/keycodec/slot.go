package keycodec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Variant selects the dictionary item key layout. Deployed contracts differ
// on whether a tag byte sits between the index and the pair key, and the
// layout in use can only be discovered by probing.
type Variant struct {
	tagged bool
	tag    byte
}

// Untagged lays out index || pairkey.
var Untagged = Variant{}

// Tagged lays out index || tag || pairkey.
func Tagged(tag byte) Variant {
	return Variant{tagged: true, tag: tag}
}

// DefaultVariants is the fixed trial order used when probing.
func DefaultVariants() []Variant {
	return []Variant{Tagged(0), Untagged}
}

func (v Variant) IsTagged() bool { return v.tagged }

func (v Variant) TagByte() byte { return v.tag }

func (v Variant) String() string {
	if !v.tagged {
		return "untagged"
	}
	return fmt.Sprintf("tagged(%d)", v.tag)
}

const indexSize = 4

// SlotKeySize returns the length of a slot key built under v.
func (v Variant) SlotKeySize() int {
	if v.tagged {
		return indexSize + 1 + PairKeySize
	}
	return indexSize + PairKeySize
}

// BuildSlotKey concatenates the big-endian index, the optional tag byte and
// the pair key.
func BuildSlotKey(pk PairKey, index uint32, v Variant) []byte {
	out := make([]byte, v.SlotKeySize())
	binary.BigEndian.PutUint32(out[:indexSize], index)
	off := indexSize
	if v.tagged {
		out[off] = v.tag
		off++
	}
	copy(out[off:], pk[:])
	return out
}

// Hasher computes the storage-addressing digest of a slot key.
type Hasher func([]byte) []byte

// Blake2b256 is the digest the contract runtime uses for dictionary item keys.
func Blake2b256(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}

// NewBlake2bHasher returns an unkeyed blake2b hasher with the given output size.
func NewBlake2bHasher(size int) (Hasher, error) {
	if _, err := blake2b.New(size, nil); err != nil {
		return nil, fmt.Errorf("blake2b size %d: %w", size, err)
	}
	return func(b []byte) []byte {
		h, _ := blake2b.New(size, nil)
		h.Write(b)
		return h.Sum(nil)
	}, nil
}

// StorageKey hashes b and returns the lowercase hex digest.
func (h Hasher) StorageKey(b []byte) string {
	if h == nil {
		h = Blake2b256
	}
	return hex.EncodeToString(h(b))
}

// DigestToStorageKey hashes b with blake2b-256 and returns 64 lowercase hex chars.
func DigestToStorageKey(b []byte) string {
	return Hasher(Blake2b256).StorageKey(b)
}

// DictionaryItemKey is BuildSlotKey followed by DigestToStorageKey.
func DictionaryItemKey(pk PairKey, index uint32, v Variant) string {
	return DigestToStorageKey(BuildSlotKey(pk, index, v))
}
