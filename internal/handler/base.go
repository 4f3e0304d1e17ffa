// Package handler defines HTTP request handlers and related utilities.
package handler

import (
	"errors"
	"log/slog"

	"github.com/nulln0ne/casper-swap-estimator/internal/resolver"
	"github.com/nulln0ne/casper-swap-estimator/internal/service"
	"github.com/nulln0ne/casper-swap-estimator/pkg/amm"
	"github.com/nulln0ne/casper-swap-estimator/pkg/clvalue"
	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *slog.Logger
}

// handleServiceError maps service failures onto HTTP errors. A missing pool
// and an empty pool are answers, not faults.
func (h *BaseHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSameToken):
		return ErrSameTokenBadRequest
	case errors.Is(err, service.ErrUnknownToken), errors.Is(err, keycodec.ErrMalformedIdentifier):
		return NewInvalidToken(err)
	case errors.Is(err, amm.ErrInvalidSlippage):
		return ErrInvalidSlippageBadRequest
	case errors.Is(err, resolver.ErrPairNotFound):
		return ErrPairNotFoundNotFound
	case errors.Is(err, amm.ErrInsufficientLiquidity):
		return ErrNoLiquidity
	case errors.Is(err, clvalue.ErrDecode), errors.Is(err, service.ErrPairMismatch):
		h.logger.Error("pool data has unexpected layout", "err", err)
		return ErrUnexpectedPoolData
	case errors.Is(err, resolver.ErrTimeout):
		h.logger.Warn("node timed out", "err", err)
		return ErrNodeTimeout
	case errors.Is(err, resolver.ErrNetwork):
		h.logger.Warn("node unavailable", "err", err)
		return ErrNodeUnavailable
	default:
		h.logger.Error("service request failed", "err", err)
		return ErrEstimationFailedInternal
	}
}
