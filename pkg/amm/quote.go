package amm

import "math/big"

// Quote is the priced result of one swap against a reserve snapshot.
type Quote struct {
	AmountIn        *big.Int
	AmountOut       *big.Int
	MinimumReceived *big.Int
	// PriceImpact is a percentage; PriceImpactBps the same value in bps.
	PriceImpact    *big.Rat
	PriceImpactBps *big.Int
	FeeBps         uint16
	SlippageBps    uint16
}

// NewQuote prices amountIn against reserveIn/reserveOut. Every failure is
// returned; a quote is never partially filled.
func NewQuote(amountIn, reserveIn, reserveOut *big.Int, feeBps, slippageBps uint16) (Quote, error) {
	if slippageBps >= BpsDenominator {
		return Quote{}, ErrInvalidSlippage
	}

	out, err := GetAmountOut(amountIn, reserveIn, reserveOut, feeBps)
	if err != nil {
		return Quote{}, err
	}
	minOut, err := MinimumReceived(out, slippageBps)
	if err != nil {
		return Quote{}, err
	}
	impact, err := PriceImpact(amountIn, out, reserveIn, reserveOut)
	if err != nil {
		return Quote{}, err
	}
	impactBps, err := PriceImpactBps(amountIn, out, reserveIn, reserveOut)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		AmountIn:        new(big.Int).Set(amountIn),
		AmountOut:       out,
		MinimumReceived: minOut,
		PriceImpact:     impact,
		PriceImpactBps:  impactBps,
		FeeBps:          feeBps,
		SlippageBps:     slippageBps,
	}, nil
}
