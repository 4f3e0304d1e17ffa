package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/nulln0ne/casper-swap-estimator/internal/resolver"
	"github.com/nulln0ne/casper-swap-estimator/pkg/amm"
	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// PairResolver locates a pair's stored reserves.
type PairResolver interface {
	ResolvePair(ctx context.Context, a, b keycodec.Identifier, maxIndex uint32) (*resolver.PairLocation, error)
}

// Params are the pricing defaults the service applies.
type Params struct {
	MaxProbeIndex      uint32
	FeeBps             uint16
	DefaultSlippageBps uint16
}

// QuoteService prices swaps against pair reserves read from contract storage.
type QuoteService struct {
	BaseService
	resolver PairResolver
	tokens   *TokenRegistry
	params   Params
}

func NewQuoteService(logger *slog.Logger, r PairResolver, tokens *TokenRegistry, params Params) *QuoteService {
	return &QuoteService{
		BaseService: BaseService{logger: logger},
		resolver:    r,
		tokens:      tokens,
		params:      params,
	}
}

// Severity bands a price impact for display.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeveritySevere   Severity = "severe"
)

// WarnImpactBps is the impact at which a quote carries a warning.
const WarnImpactBps = 500

func severityOf(impactBps *big.Int) Severity {
	switch {
	case impactBps.Cmp(big.NewInt(100)) < 0:
		return SeverityLow
	case impactBps.Cmp(big.NewInt(500)) < 0:
		return SeverityModerate
	case impactBps.Cmp(big.NewInt(1000)) < 0:
		return SeverityHigh
	default:
		return SeveritySevere
	}
}

// Pair is a located pool with its tokens resolved against the registry.
type Pair struct {
	Token0   Token
	Token1   Token
	Location resolver.PairLocation
}

// QuoteRequest asks for the output of swapping AmountIn of TokenIn.
// A nil SlippageBps uses the service default.
type QuoteRequest struct {
	TokenIn     string
	TokenOut    string
	AmountIn    *big.Int
	SlippageBps *uint16
}

type QuoteResult struct {
	TokenIn  Token
	TokenOut Token
	Quote    amm.Quote
	Pair     Pair

	Severity Severity
	Warning  bool

	AmountOutDisplay       string
	MinimumReceivedDisplay string
	PriceImpactDisplay     string
}

func (s *QuoteService) tokenPair(refA, refB string) (Token, Token, error) {
	a, err := s.tokens.Lookup(refA)
	if err != nil {
		return Token{}, Token{}, err
	}
	b, err := s.tokens.Lookup(refB)
	if err != nil {
		return Token{}, Token{}, err
	}
	if a.ID == b.ID {
		return Token{}, Token{}, ErrSameToken
	}
	return a, b, nil
}

// Pair locates the pool for two tokens given by symbol or identifier.
func (s *QuoteService) Pair(ctx context.Context, refA, refB string) (*Pair, error) {
	a, b, err := s.tokenPair(refA, refB)
	if err != nil {
		return nil, err
	}
	return s.pair(ctx, a, b)
}

func (s *QuoteService) pair(ctx context.Context, a, b Token) (*Pair, error) {
	loc, err := s.resolver.ResolvePair(ctx, a.ID, b.ID, s.params.MaxProbeIndex)
	if err != nil {
		return nil, err
	}
	return &Pair{
		Token0:   s.tokens.ByID(loc.Reserves.Token0),
		Token1:   s.tokens.ByID(loc.Reserves.Token1),
		Location: *loc,
	}, nil
}

// Quote resolves the pool for the two tokens, orients its reserves to the
// swap direction and prices the trade.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	in, out, err := s.tokenPair(req.TokenIn, req.TokenOut)
	if err != nil {
		return nil, err
	}
	slippage := s.params.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippage = *req.SlippageBps
	}
	if slippage >= amm.BpsDenominator {
		return nil, amm.ErrInvalidSlippage
	}

	s.logger.Debug("quoting swap", "in", in.Name(), "out", out.Name(), "amount", req.AmountIn.String())

	pair, err := s.pair(ctx, in, out)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut, ok := pair.Location.Reserves.Oriented(in.ID, out.ID)
	if !ok {
		return nil, fmt.Errorf("%w: stored %s/%s", ErrPairMismatch, pair.Token0.Name(), pair.Token1.Name())
	}

	q, err := amm.NewQuote(req.AmountIn, reserveIn, reserveOut, s.params.FeeBps, slippage)
	if err != nil {
		return nil, err
	}

	res := &QuoteResult{
		TokenIn:                in,
		TokenOut:               out,
		Quote:                  q,
		Pair:                   *pair,
		Severity:               severityOf(q.PriceImpactBps),
		Warning:                q.PriceImpactBps.Cmp(big.NewInt(WarnImpactBps)) >= 0,
		AmountOutDisplay:       FormatUnits(q.AmountOut, out.Decimals, 4),
		MinimumReceivedDisplay: FormatUnits(q.MinimumReceived, out.Decimals, 4),
		PriceImpactDisplay:     q.PriceImpact.FloatString(2),
	}
	s.logger.Debug("quote computed", "out", q.AmountOut.String(), "min", q.MinimumReceived.String(), "impact_bps", q.PriceImpactBps.String())
	return res, nil
}
