package handler

import (
	"context"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/casper-swap-estimator/internal/service"
)

// QuoteService is the part of the quote service the quote handler uses.
type QuoteService interface {
	Quote(ctx context.Context, req service.QuoteRequest) (*service.QuoteResult, error)
}

type QuoteHandler struct {
	BaseHandler
	service QuoteService
}

func NewQuoteHandler(logger *slog.Logger, svc QuoteService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

type QuoteRequest struct {
	TokenIn     string `query:"token_in" json:"token_in"`
	TokenOut    string `query:"token_out" json:"token_out"`
	AmountIn    string `query:"amount_in" json:"amount_in"`
	SlippageBps string `query:"slippage_bps" json:"slippage_bps"`
}

type QuoteResponse struct {
	TokenIn                string `json:"token_in"`
	TokenOut               string `json:"token_out"`
	AmountIn               string `json:"amount_in"`
	AmountOut              string `json:"amount_out"`
	MinimumReceived        string `json:"minimum_received"`
	FeeBps                 uint16 `json:"fee_bps"`
	SlippageBps            uint16 `json:"slippage_bps"`
	PriceImpactBps         string `json:"price_impact_bps"`
	PriceImpact            string `json:"price_impact"`
	Severity               string `json:"severity"`
	Warning                bool   `json:"warning"`
	AmountOutDisplay       string `json:"amount_out_display"`
	MinimumReceivedDisplay string `json:"minimum_received_display"`
	Stale                  bool   `json:"stale"`
}

func (h *QuoteHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		res, err := h.service.Quote(c.Context(), *req)
		if err != nil {
			return h.handleServiceError(err)
		}

		q := res.Quote
		h.logger.Debug("quote computed", "in", res.TokenIn.Name(), "out", res.TokenOut.Name(), "amount_in", q.AmountIn.String(), "amount_out", q.AmountOut.String())
		return c.JSON(QuoteResponse{
			TokenIn:                res.TokenIn.ID.String(),
			TokenOut:               res.TokenOut.ID.String(),
			AmountIn:               q.AmountIn.String(),
			AmountOut:              q.AmountOut.String(),
			MinimumReceived:        q.MinimumReceived.String(),
			FeeBps:                 q.FeeBps,
			SlippageBps:            q.SlippageBps,
			PriceImpactBps:         q.PriceImpactBps.String(),
			PriceImpact:            res.PriceImpactDisplay,
			Severity:               string(res.Severity),
			Warning:                res.Warning,
			AmountOutDisplay:       res.AmountOutDisplay,
			MinimumReceivedDisplay: res.MinimumReceivedDisplay,
			Stale:                  res.Pair.Location.Stale,
		})
	}
}

func (h *QuoteHandler) parseAndValidateRequest(c fiber.Ctx) (*service.QuoteRequest, error) {
	var req QuoteRequest
	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	if req.TokenIn == "" {
		return nil, NewTokenRequired("token_in")
	}
	if req.TokenOut == "" {
		return nil, NewTokenRequired("token_out")
	}

	amount, err := h.parseAmount(req.AmountIn)
	if err != nil {
		return nil, err
	}

	out := &service.QuoteRequest{TokenIn: req.TokenIn, TokenOut: req.TokenOut, AmountIn: amount}
	if req.SlippageBps != "" {
		bps, err := strconv.ParseUint(req.SlippageBps, 10, 16)
		if err != nil {
			return nil, ErrInvalidSlippageFormat
		}
		v := uint16(bps)
		out.SlippageBps = &v
	}
	return out, nil
}

// parseAmount accepts zero: an empty trade quotes as zero output.
func (h *QuoteHandler) parseAmount(amountStr string) (*big.Int, error) {
	if amountStr == "" {
		return nil, ErrAmountRequired
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, ErrInvalidAmountFormat
	}

	if amount.Sign() < 0 {
		return nil, ErrAmountNegative
	}

	return amount, nil
}
