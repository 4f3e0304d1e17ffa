package amm

import "math/big"

var hundred = big.NewRat(100, 1)

// impactFraction returns the numerator and denominator of
// 1 - (amountOut/amountIn) / (reserveOut/reserveIn), cross-multiplied so no
// division happens before the final ratio.
func impactFraction(amountIn, amountOut, reserveIn, reserveOut *big.Int) (num, den *big.Int, err error) {
	for _, v := range []struct {
		name string
		val  *big.Int
	}{{"amount in", amountIn}, {"amount out", amountOut}, {"reserve in", reserveIn}, {"reserve out", reserveOut}} {
		if err := checkU256(v.name, v.val); err != nil {
			return nil, nil, err
		}
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, nil, ErrInsufficientLiquidity
	}

	// spot = amountIn * reserveOut, exec = amountOut * reserveIn
	den = new(big.Int).Mul(amountIn, reserveOut)
	exec := new(big.Int).Mul(amountOut, reserveIn)
	num = new(big.Int).Sub(den, exec)
	return num, den, nil
}

// PriceImpact returns the execution price shortfall versus the spot price as
// an exact percentage (1.5 means 1.5%). A zero amountIn has zero impact.
func PriceImpact(amountIn, amountOut, reserveIn, reserveOut *big.Int) (*big.Rat, error) {
	num, den, err := impactFraction(amountIn, amountOut, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	if den.Sign() == 0 {
		return new(big.Rat), nil
	}
	r := new(big.Rat).SetFrac(num, den)
	return r.Mul(r, hundred), nil
}

// PriceImpactBps is PriceImpact in whole basis points, truncated toward zero.
func PriceImpactBps(amountIn, amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	num, den, err := impactFraction(amountIn, amountOut, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	if den.Sign() == 0 {
		return new(big.Int), nil
	}
	num.Mul(num, bpsDen)
	return num.Quo(num, den), nil
}
