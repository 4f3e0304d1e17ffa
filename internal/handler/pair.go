package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/casper-swap-estimator/internal/service"
)

// PairService is the part of the quote service the pair handler uses.
type PairService interface {
	Pair(ctx context.Context, refA, refB string) (*service.Pair, error)
}

type PairHandler struct {
	BaseHandler
	service PairService
}

func NewPairHandler(logger *slog.Logger, svc PairService) *PairHandler {
	return &PairHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

type PairRequest struct {
	TokenA string `query:"token_a" json:"token_a"`
	TokenB string `query:"token_b" json:"token_b"`
}

type PairResponse struct {
	Index         uint32 `json:"index"`
	Variant       string `json:"variant"`
	DictionaryKey string `json:"dictionary_key"`
	StateRootHash string `json:"state_root_hash"`
	Token0        string `json:"token0"`
	Token1        string `json:"token1"`
	Symbol0       string `json:"symbol0,omitempty"`
	Symbol1       string `json:"symbol1,omitempty"`
	Reserve0      string `json:"reserve0"`
	Reserve1      string `json:"reserve1"`
	Stale         bool   `json:"stale"`
}

func (h *PairHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req PairRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		if req.TokenA == "" {
			return NewTokenRequired("token_a")
		}
		if req.TokenB == "" {
			return NewTokenRequired("token_b")
		}

		p, err := h.service.Pair(c.Context(), req.TokenA, req.TokenB)
		if err != nil {
			return h.handleServiceError(err)
		}

		loc := p.Location
		return c.JSON(PairResponse{
			Index:         loc.Probe.Index,
			Variant:       loc.Probe.Variant.String(),
			DictionaryKey: loc.DictionaryKey,
			StateRootHash: loc.StateRootHash,
			Token0:        loc.Reserves.Token0.String(),
			Token1:        loc.Reserves.Token1.String(),
			Symbol0:       p.Token0.Symbol,
			Symbol1:       p.Token1.Symbol,
			Reserve0:      loc.Reserves.Reserve0.String(),
			Reserve1:      loc.Reserves.Reserve1.String(),
			Stale:         loc.Stale,
		})
	}
}
