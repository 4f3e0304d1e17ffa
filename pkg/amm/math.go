// Package amm implements constant-product swap pricing in exact integer
// arithmetic.
package amm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidSlippage       = errors.New("slippage must be in [0, 10000) bps")
	ErrInvalidFee            = errors.New("fee must be in [0, 10000) bps")
	ErrValueOverflow         = errors.New("value does not fit in 256 bits")
	ErrNegativeValue         = errors.New("value must not be negative")
)

const (
	// BpsDenominator is one whole in basis points.
	BpsDenominator = 10_000
	// DefaultFeeBps is the 0.3% pool fee.
	DefaultFeeBps uint16 = 30
)

var bpsDen = big.NewInt(BpsDenominator)

// checkU256 rejects values outside the on-chain U256 range.
func checkU256(name string, v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("%s: %w", name, ErrNegativeValue)
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return fmt.Errorf("%s: %w", name, ErrValueOverflow)
	}
	return nil
}

// amountOut writes the swap output into dst using t1 and t2 as scratch.
// None of dst, t1, t2 may alias the inputs.
func amountOut(dst, t1, t2 *big.Int, amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) *big.Int {
	// t1 = amountIn * (10000 - fee)
	t1.SetUint64(uint64(BpsDenominator - feeBps))
	t1.Mul(t1, amountIn)
	// t2 = reserveIn * 10000
	t2.Mul(reserveIn, bpsDen)
	// t2 = t2 + t1  (denominator)
	t2.Add(t2, t1)
	// dst = t1 * reserveOut (numerator)
	dst.Mul(t1, reserveOut)
	// dst = dst / t2  (avoid aliasing z==y)
	return dst.Div(dst, t2)
}

// GetAmountOutInto is GetAmountOut with caller-owned result and scratch
// values, for hot loops.
func GetAmountOutInto(dst, t1, t2 *big.Int, amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if feeBps >= BpsDenominator {
		return nil, ErrInvalidFee
	}
	for _, v := range []struct {
		name string
		val  *big.Int
	}{{"amount in", amountIn}, {"reserve in", reserveIn}, {"reserve out", reserveOut}} {
		if err := checkU256(v.name, v.val); err != nil {
			return nil, err
		}
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, ErrInsufficientLiquidity
	}
	if amountIn.Sign() == 0 {
		return dst.SetUint64(0), nil
	}

	return amountOut(dst, t1, t2, amountIn, reserveIn, reserveOut, feeBps), nil
}

// GetAmountOut returns the output of swapping amountIn against the given
// reserves with feeBps taken from the input:
//
//	out = (in*(10000-fee)*reserveOut) / (reserveIn*10000 + in*(10000-fee))
//
// big.Int holds the full intermediate product, so 256-bit operands never
// overflow.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	var t1, t2 big.Int
	return GetAmountOutInto(new(big.Int), &t1, &t2, amountIn, reserveIn, reserveOut, feeBps)
}

// MinimumReceived applies a slippage tolerance to amountOut, rounding down.
func MinimumReceived(amountOut *big.Int, slippageBps uint16) (*big.Int, error) {
	if slippageBps >= BpsDenominator {
		return nil, ErrInvalidSlippage
	}
	if err := checkU256("amount out", amountOut); err != nil {
		return nil, err
	}
	out := new(big.Int).Mul(amountOut, big.NewInt(int64(BpsDenominator-slippageBps)))
	return out.Div(out, bpsDen), nil
}
