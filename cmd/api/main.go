package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/nulln0ne/casper-swap-estimator/internal/casper"
	"github.com/nulln0ne/casper-swap-estimator/internal/config"
	"github.com/nulln0ne/casper-swap-estimator/internal/handler"
	"github.com/nulln0ne/casper-swap-estimator/internal/logging"
	"github.com/nulln0ne/casper-swap-estimator/internal/resolver"
	"github.com/nulln0ne/casper-swap-estimator/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	casperClient, err := casper.Dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to Casper node: %w", err)
	}

	pairResolver := resolver.New(logger, casperClient, resolver.NewCache(cfg.CacheSize, cfg.CacheTTL), resolver.Options{
		SeedURef:    cfg.SeedURef,
		Timeout:     cfg.RPCTimeout,
		Retries:     cfg.ProbeRetries,
		Concurrency: cfg.ProbeConcurrency,
		ServeStale:  cfg.ServeStale,
	})

	tokens := make([]service.Token, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tokens = append(tokens, service.Token{Symbol: t.Symbol, ID: t.ID, Decimals: t.Decimals})
	}

	quoteService := service.NewQuoteService(logger, pairResolver, service.NewTokenRegistry(tokens...), service.Params{
		MaxProbeIndex:      cfg.MaxProbeIndex,
		FeeBps:             cfg.FeeBps,
		DefaultSlippageBps: cfg.SlippageBps,
	})
	app.Get("/quote", handler.NewQuoteHandler(logger, quoteService).Handle())
	app.Get("/pair", handler.NewPairHandler(logger, quoteService).Handle())

	logger.Info("starting server", "addr", cfg.Addr, "tokens", len(tokens), "max_probe_index", cfg.MaxProbeIndex)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			casperClient.Close()
			return fmt.Errorf("server error: %w", err)
		}
		casperClient.Close()
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(shutdownCtx)

	casperClient.Close()
	return nil
}
