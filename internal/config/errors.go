package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required CASPER_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing CASPER_RPC_URL environment variable")

// ErrMissingSeedURef indicates that PAIRS_SEED_UREF is not set.
var ErrMissingSeedURef = errors.New("missing PAIRS_SEED_UREF environment variable")

// ErrInvalidValue is returned when a variable is set but cannot be parsed.
var ErrInvalidValue = errors.New("invalid configuration value")

// ErrInvalidToken is returned for a malformed TOKENS entry.
var ErrInvalidToken = errors.New("invalid TOKENS entry")
