package service

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// DefaultDecimals applies to tokens given by identifier and not registered.
const DefaultDecimals = 18

type Token struct {
	Symbol   string
	ID       keycodec.Identifier
	Decimals uint8
}

// TokenRegistry resolves symbols and identifiers to tokens.
type TokenRegistry struct {
	bySymbol map[string]Token
	byID     map[keycodec.Identifier]Token
}

func NewTokenRegistry(tokens ...Token) *TokenRegistry {
	r := &TokenRegistry{
		bySymbol: make(map[string]Token, len(tokens)),
		byID:     make(map[keycodec.Identifier]Token, len(tokens)),
	}
	for _, t := range tokens {
		r.bySymbol[strings.ToUpper(t.Symbol)] = t
		r.byID[t.ID] = t
	}
	return r
}

// Lookup accepts a registered symbol or an identifier string. Unregistered
// identifiers get DefaultDecimals and no symbol.
func (r *TokenRegistry) Lookup(ref string) (Token, error) {
	if t, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(ref))]; ok {
		return t, nil
	}
	ref = strings.TrimSpace(ref)
	id, err := keycodec.Parse(ref)
	if err != nil {
		if looksLikeIdentifier(ref) {
			return Token{}, err
		}
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, ref)
	}
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return Token{ID: id, Decimals: DefaultDecimals}, nil
}

func looksLikeIdentifier(ref string) bool {
	return strings.HasPrefix(ref, "hash-") || strings.HasPrefix(ref, "account-hash-") || len(ref) == 2*keycodec.DigestSize
}

// ByID returns the registered token for id, or an unnamed one.
func (r *TokenRegistry) ByID(id keycodec.Identifier) Token {
	if t, ok := r.byID[id]; ok {
		return t
	}
	return Token{ID: id, Decimals: DefaultDecimals}
}

// Name is the symbol if known, else the identifier.
func (t Token) Name() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.ID.String()
}

// FormatUnits renders amount scaled down by decimals with a fixed number of
// fractional digits. Display only.
func FormatUnits(amount *big.Int, decimals uint8, places int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(amount, scale).FloatString(places)
}
