// Package keycodec reproduces the canonical byte layout a Casper/Odra contract
// uses to address entries of its dictionary-backed storage.
package keycodec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned when an identifier string has the wrong
// length, prefix or hex content.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// Tag distinguishes the two recognized identifier forms.
type Tag byte

const (
	TagAccount Tag = 0
	TagHash    Tag = 1
)

const (
	accountPrefix = "account-hash-"
	hashPrefix    = "hash-"

	// DigestSize is the byte length of an identifier digest.
	DigestSize = 32
	// CanonicalSize is the byte length of an encoded identifier (tag + digest).
	CanonicalSize = 1 + DigestSize
)

// Identifier is an addressable entity reference: an account or a
// contract/package hash.
type Identifier struct {
	Tag    Tag
	Digest [DigestSize]byte
}

// Parse decodes the textual form of an identifier. Unprefixed input is
// accepted and tagged as a hash when it is exactly 64 hex characters.
func Parse(s string) (Identifier, error) {
	tag := TagHash
	rest := s
	switch {
	case strings.HasPrefix(s, accountPrefix):
		tag = TagAccount
		rest = s[len(accountPrefix):]
	case strings.HasPrefix(s, hashPrefix):
		rest = s[len(hashPrefix):]
	}

	if len(rest) != 2*DigestSize {
		return Identifier{}, fmt.Errorf("%w: %q: want %d hex chars, got %d", ErrMalformedIdentifier, s, 2*DigestSize, len(rest))
	}

	var id Identifier
	if _, err := hex.Decode(id.Digest[:], []byte(rest)); err != nil {
		return Identifier{}, fmt.Errorf("%w: %q: %v", ErrMalformedIdentifier, s, err)
	}
	id.Tag = tag
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Bytes returns the canonical 33-byte form: tag byte followed by digest.
func (id Identifier) Bytes() [CanonicalSize]byte {
	var out [CanonicalSize]byte
	out[0] = byte(id.Tag)
	copy(out[1:], id.Digest[:])
	return out
}

// String returns the tag-prefixed lowercase hex form.
func (id Identifier) String() string {
	if id.Tag == TagAccount {
		return accountPrefix + hex.EncodeToString(id.Digest[:])
	}
	return hashPrefix + hex.EncodeToString(id.Digest[:])
}

// DecodeIdentifier reads a canonical identifier from the front of b.
func DecodeIdentifier(b []byte) (Identifier, error) {
	if len(b) < CanonicalSize {
		return Identifier{}, fmt.Errorf("%w: need %d bytes, have %d", ErrMalformedIdentifier, CanonicalSize, len(b))
	}
	tag := Tag(b[0])
	if tag != TagAccount && tag != TagHash {
		return Identifier{}, fmt.Errorf("%w: unknown tag %d", ErrMalformedIdentifier, b[0])
	}
	id := Identifier{Tag: tag}
	copy(id.Digest[:], b[1:CanonicalSize])
	return id, nil
}
