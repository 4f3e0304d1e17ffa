// Package clvalue decodes the self-describing values a Casper node returns
// for stored contract data.
package clvalue

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// ErrDecode indicates stored data whose shape does not match the layout
// being decoded.
var ErrDecode = errors.New("decode error")

// TypedValue is the CLValue envelope: a declared type plus hex-encoded
// serialized bytes.
type TypedValue struct {
	CLType json.RawMessage `json:"cl_type"`
	Bytes  string          `json:"bytes"`
	Parsed json.RawMessage `json:"parsed,omitempty"`
}

// TypeName returns the outer type tag: "Any", "Key", "List", "Tuple2", ...
func (v TypedValue) TypeName() (string, error) {
	var name string
	if err := json.Unmarshal(v.CLType, &name); err == nil {
		return name, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(v.CLType, &obj); err != nil || len(obj) != 1 {
		return "", fmt.Errorf("%w: unrecognized cl_type %s", ErrDecode, string(v.CLType))
	}
	for k := range obj {
		return k, nil
	}
	return "", nil
}

func (v TypedValue) raw() ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(v.Bytes, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: bytes: %v", ErrDecode, err)
	}
	return b, nil
}

// Payload returns the serialized body of a byte-carrying value. Odra stores
// structs either as an opaque "Any" or as a length-prefixed List<U8>.
func (v TypedValue) Payload() ([]byte, error) {
	name, err := v.TypeName()
	if err != nil {
		return nil, err
	}
	b, err := v.raw()
	if err != nil {
		return nil, err
	}

	switch name {
	case "Any", "ByteArray":
		return b, nil
	case "List":
		var inner string
		var obj map[string]json.RawMessage
		_ = json.Unmarshal(v.CLType, &obj)
		if err := json.Unmarshal(obj["List"], &inner); err != nil || inner != "U8" {
			return nil, fmt.Errorf("%w: list of %s is not a byte list", ErrDecode, string(obj["List"]))
		}
		r := &reader{b: b}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		body, err := r.take(int(n))
		if err != nil {
			return nil, err
		}
		if err := r.done(); err != nil {
			return nil, err
		}
		return body, nil
	default:
		return nil, fmt.Errorf("%w: cl_type %s carries no struct payload", ErrDecode, name)
	}
}

type reader struct {
	b   []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.b)-r.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrDecode, n, r.off, len(r.b)-r.off)
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// key reads an account or hash Key.
func (r *reader) key() (keycodec.Identifier, error) {
	b, err := r.take(keycodec.CanonicalSize)
	if err != nil {
		return keycodec.Identifier{}, err
	}
	id, err := keycodec.DecodeIdentifier(b)
	if err != nil {
		return keycodec.Identifier{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return id, nil
}

// u256 reads a length-prefixed little-endian unsigned integer.
func (r *reader) u256() (*big.Int, error) {
	n, err := r.take(1)
	if err != nil {
		return nil, err
	}
	if n[0] > 32 {
		return nil, fmt.Errorf("%w: U256 length %d", ErrDecode, n[0])
	}
	le, err := r.take(int(n[0]))
	if err != nil {
		return nil, err
	}
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be), nil
}

func (r *reader) done() error {
	if r.off != len(r.b) {
		return fmt.Errorf("%w: %d trailing bytes", ErrDecode, len(r.b)-r.off)
	}
	return nil
}
