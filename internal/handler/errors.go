package handler

import "github.com/gofiber/fiber/v3"

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount_in is required")

// ErrInvalidAmountFormat is returned when the amount cannot be parsed as a
// base-10 integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrAmountNegative is returned when the amount is below zero.
var ErrAmountNegative = fiber.NewError(fiber.StatusBadRequest, "amount must not be negative")

// ErrInvalidSlippageFormat is returned for a slippage_bps that is not an integer.
var ErrInvalidSlippageFormat = fiber.NewError(fiber.StatusBadRequest, "invalid slippage_bps format")

// ErrSameTokenBadRequest maps a same-token validation failure to a 400 error.
var ErrSameTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "tokens cannot be the same")

// ErrInvalidSlippageBadRequest maps an out-of-range slippage to a 400 error.
var ErrInvalidSlippageBadRequest = fiber.NewError(fiber.StatusBadRequest, "slippage_bps must be below 10000")

// ErrPairNotFoundNotFound reports that no pool exists for the pair.
var ErrPairNotFoundNotFound = fiber.NewError(fiber.StatusNotFound, "no pool exists for this pair")

// ErrNoLiquidity reports an empty pool.
var ErrNoLiquidity = fiber.NewError(fiber.StatusUnprocessableEntity, "no liquidity")

// ErrUnexpectedPoolData reports stored data in a layout we cannot read.
var ErrUnexpectedPoolData = fiber.NewError(fiber.StatusBadGateway, "unexpected pool data")

// ErrNodeUnavailable signals a transport failure talking to the node.
var ErrNodeUnavailable = fiber.NewError(fiber.StatusBadGateway, "node unavailable")

// ErrNodeTimeout signals that the node did not answer in time.
var ErrNodeTimeout = fiber.NewError(fiber.StatusGatewayTimeout, "node timed out")

// ErrEstimationFailedInternal signals a generic server-side estimation error.
var ErrEstimationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "estimation failed")

// NewTokenRequired returns a 400 Bad Request for a missing token field.
func NewTokenRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" is required")
}

// NewInvalidToken returns a 400 Bad Request for an unusable token reference.
func NewInvalidToken(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid token: "+err.Error())
}
