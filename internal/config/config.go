package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

type Config struct {
	Addr        string
	RPCEndpoint string
	SeedURef    string
	LogLevel    string
	LogFormat   string

	MaxProbeIndex uint32
	FeeBps        uint16
	SlippageBps   uint16

	RPCTimeout       time.Duration
	ProbeRetries     uint64
	ProbeConcurrency int
	ServeStale       bool
	CacheSize        int
	CacheTTL         time.Duration

	Tokens []Token
}

// Token is a configured token: TOKENS=WCSPR=hash-...:18,ECTO=hash-...:18
type Token struct {
	Symbol   string
	ID       keycodec.Identifier
	Decimals uint8
}

func FromEnv() (*Config, error) {
	rpcURL := os.Getenv("CASPER_RPC_URL")
	if rpcURL == "" {
		return nil, ErrMissingRPCEndpoint
	}

	seed := os.Getenv("PAIRS_SEED_UREF")
	if seed == "" {
		return nil, ErrMissingSeedURef
	}

	cfg := &Config{
		Addr:        envOr("ADDR", ":1337"),
		RPCEndpoint: rpcURL,
		SeedURef:    seed,
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.MaxProbeIndex, err = envUint[uint32]("MAX_PROBE_INDEX", 10, 32); err != nil {
		return nil, err
	}
	if cfg.FeeBps, err = envBps("FEE_BPS", 30); err != nil {
		return nil, err
	}
	if cfg.SlippageBps, err = envBps("SLIPPAGE_BPS", 50); err != nil {
		return nil, err
	}
	if cfg.RPCTimeout, err = envDuration("RPC_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeRetries, err = envUint[uint64]("PROBE_RETRIES", 0, 64); err != nil {
		return nil, err
	}
	concurrency, err := envUint[uint32]("PROBE_CONCURRENCY", 1, 16)
	if err != nil {
		return nil, err
	}
	cfg.ProbeConcurrency = int(concurrency)
	if cfg.ServeStale, err = envBool("SERVE_STALE", false); err != nil {
		return nil, err
	}
	cacheSize, err := envUint[uint32]("CACHE_SIZE", 256, 31)
	if err != nil {
		return nil, err
	}
	cfg.CacheSize = int(cacheSize)
	if cfg.CacheTTL, err = envDuration("CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.Tokens, err = ParseTokens(os.Getenv("TOKENS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseTokens parses a comma-separated list of SYMBOL=identifier:decimals.
func ParseTokens(s string) ([]Token, error) {
	var tokens []Token
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		symbol, rest, ok := strings.Cut(entry, "=")
		if !ok || symbol == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, entry)
		}
		ident, dec, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q: missing decimals", ErrInvalidToken, entry)
		}
		id, err := keycodec.Parse(ident)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidToken, entry, err)
		}
		decimals, err := strconv.ParseUint(dec, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: decimals: %v", ErrInvalidToken, entry, err)
		}
		tokens = append(tokens, Token{Symbol: strings.ToUpper(symbol), ID: id, Decimals: uint8(decimals)})
	}
	return tokens, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envUint[T uint32 | uint64](key string, def T, bits int) (T, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, key, v, err)
	}
	return T(n), nil
}

func envBps(key string, def uint16) (uint16, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil || n >= 10_000 {
		return 0, fmt.Errorf("%w: %s=%q: want basis points in [0, 10000)", ErrInvalidValue, key, v)
	}
	return uint16(n), nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v)
	}
	return b, nil
}
