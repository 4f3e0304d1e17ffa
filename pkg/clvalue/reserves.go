package clvalue

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// ReserveState is a snapshot of a pair's tokens and balances.
type ReserveState struct {
	Token0   keycodec.Identifier
	Token1   keycodec.Identifier
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// Oriented returns (reserveIn, reserveOut) for a swap of tokenIn into
// tokenOut, or false if the tokens are not this pair's.
func (s ReserveState) Oriented(tokenIn, tokenOut keycodec.Identifier) (*big.Int, *big.Int, bool) {
	switch {
	case tokenIn == s.Token0 && tokenOut == s.Token1:
		return s.Reserve0, s.Reserve1, true
	case tokenIn == s.Token1 && tokenOut == s.Token0:
		return s.Reserve1, s.Reserve0, true
	default:
		return nil, nil, false
	}
}

// DecodeReserves decodes a reserves record laid out as
// Key token0, Key token1, U256 reserve0, U256 reserve1.
func DecodeReserves(v TypedValue) (ReserveState, error) {
	body, err := v.Payload()
	if err != nil {
		return ReserveState{}, err
	}

	r := &reader{b: body}
	var s ReserveState
	if s.Token0, err = r.key(); err != nil {
		return ReserveState{}, fmt.Errorf("token0: %w", err)
	}
	if s.Token1, err = r.key(); err != nil {
		return ReserveState{}, fmt.Errorf("token1: %w", err)
	}
	if s.Reserve0, err = r.u256(); err != nil {
		return ReserveState{}, fmt.Errorf("reserve0: %w", err)
	}
	if s.Reserve1, err = r.u256(); err != nil {
		return ReserveState{}, fmt.Errorf("reserve1: %w", err)
	}
	if err := r.done(); err != nil {
		return ReserveState{}, err
	}
	return s, nil
}

// DecodeKey decodes a value of cl_type Key holding an account or contract
// hash, as stored for a pair's contract address.
func DecodeKey(v TypedValue) (keycodec.Identifier, error) {
	name, err := v.TypeName()
	if err != nil {
		return keycodec.Identifier{}, err
	}
	if name != "Key" {
		return keycodec.Identifier{}, fmt.Errorf("%w: expected Key, got %s", ErrDecode, name)
	}
	b, err := v.raw()
	if err != nil {
		return keycodec.Identifier{}, err
	}
	r := &reader{b: b}
	id, err := r.key()
	if err != nil {
		return keycodec.Identifier{}, err
	}
	if err := r.done(); err != nil {
		return keycodec.Identifier{}, err
	}
	return id, nil
}

// EncodeReserves serializes s in the layout DecodeReserves reads, wrapped as
// an "Any" value.
func EncodeReserves(s ReserveState) TypedValue {
	t0, t1 := s.Token0.Bytes(), s.Token1.Bytes()
	b := make([]byte, 0, 2*keycodec.CanonicalSize+66)
	b = append(b, t0[:]...)
	b = append(b, t1[:]...)
	b = appendU256(b, s.Reserve0)
	b = appendU256(b, s.Reserve1)
	return TypedValue{CLType: []byte(`"Any"`), Bytes: hex.EncodeToString(b)}
}

func appendU256(b []byte, v *big.Int) []byte {
	be := v.Bytes()
	b = append(b, byte(len(be)))
	for i := len(be) - 1; i >= 0; i-- {
		b = append(b, be[i])
	}
	return b
}

// Clone returns a copy that shares no big.Int storage with s.
func (s ReserveState) Clone() ReserveState {
	out := s
	if s.Reserve0 != nil {
		out.Reserve0 = new(big.Int).Set(s.Reserve0)
	}
	if s.Reserve1 != nil {
		out.Reserve1 = new(big.Int).Set(s.Reserve1)
	}
	return out
}
