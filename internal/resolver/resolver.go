// Package resolver locates a token pair's record in a contract's dictionary
// storage by probing candidate slot indices and key layouts.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/nulln0ne/casper-swap-estimator/pkg/clvalue"
	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// StateReader reads dictionary items from a node. GetDictionaryItem returns
// (nil, nil) when the key holds no value.
type StateReader interface {
	GetCurrentStateRoot(ctx context.Context) (string, error)
	GetDictionaryItem(ctx context.Context, stateRootHash, seedURef, dictionaryKey string) (*clvalue.TypedValue, error)
}

// Decoder turns a hit into reserves.
type Decoder func(clvalue.TypedValue) (clvalue.ReserveState, error)

// Options configures a Resolver. The zero value probes sequentially with no
// per-call timeout and no retries.
type Options struct {
	// SeedURef is the dictionary seed the pairs live under.
	SeedURef string
	// Variants is the per-index trial order; defaults to tagged(0) then untagged.
	Variants []keycodec.Variant
	Hasher   keycodec.Hasher
	Decoder  Decoder

	// Timeout bounds every remote call.
	Timeout time.Duration
	// Retries is how many extra attempts a failed read gets.
	Retries        uint64
	RetryBaseDelay time.Duration
	// Concurrency is the number of probes in flight; 1 or less is sequential.
	Concurrency int
	// ServeStale returns the cached location when a read fails.
	ServeStale bool
}

// PairLocation is a found pair: where it is stored and what was there.
type PairLocation struct {
	Token0, Token1 keycodec.Identifier
	Probe          Probe
	DictionaryKey  string
	StateRootHash  string
	Value          clvalue.TypedValue
	Reserves       clvalue.ReserveState
	FetchedAt      time.Time
	// Stale is set when the location came from the cache after a failed read.
	Stale bool
}

func (l PairLocation) clone() PairLocation {
	l.Reserves = l.Reserves.Clone()
	return l
}

type Resolver struct {
	logger *slog.Logger
	reader StateReader
	cache  *Cache
	opts   Options
}

// New builds a Resolver. cache may be nil.
func New(logger *slog.Logger, reader StateReader, cache *Cache, opts Options) *Resolver {
	if len(opts.Variants) == 0 {
		opts.Variants = keycodec.DefaultVariants()
	}
	if opts.Hasher == nil {
		opts.Hasher = keycodec.Blake2b256
	}
	if opts.Decoder == nil {
		opts.Decoder = clvalue.DecodeReserves
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 200 * time.Millisecond
	}
	return &Resolver{logger: logger, reader: reader, cache: cache, opts: opts}
}

// ResolvePair finds the stored record for the unordered pair (a, b), trying
// slot indices 0..maxIndex. It returns ErrPairNotFound when no probe hits.
// At most 2*(maxIndex+1) dictionary reads are issued with the default
// variants.
func (r *Resolver) ResolvePair(ctx context.Context, a, b keycodec.Identifier, maxIndex uint32) (*PairLocation, error) {
	first, second := keycodec.OrderPair(a, b)
	pk := keycodec.NewPairKey(first, second)

	var cached *PairLocation
	if r.cache != nil {
		if loc, ok := r.cache.Get(pk); ok {
			cached = &loc
		}
	}

	root, err := r.stateRoot(ctx)
	if err != nil {
		return r.fallback(ctx, cached, err)
	}

	var skip *Probe
	if cached != nil && r.inRange(cached.Probe, maxIndex) {
		hint := cached.Probe
		loc, err := r.probe(ctx, root, pk, hint)
		if err != nil {
			return r.fallback(ctx, cached, err)
		}
		if loc != nil {
			return r.found(pk, first, second, loc), nil
		}
		r.logger.Debug("cached probe empty, searching", "index", hint.Index, "variant", hint.Variant.String())
		skip = &hint
	}

	loc, err := r.search(ctx, root, pk, maxIndex, skip)
	if err != nil {
		return r.fallback(ctx, cached, err)
	}
	if loc == nil {
		if r.cache != nil {
			r.cache.Remove(pk)
		}
		return nil, fmt.Errorf("%s/%s within index %d: %w", first, second, maxIndex, ErrPairNotFound)
	}
	return r.found(pk, first, second, loc), nil
}

// Invalidate drops any cached location for the pair.
func (r *Resolver) Invalidate(a, b keycodec.Identifier) {
	if r.cache != nil {
		r.cache.Remove(keycodec.NewPairKey(a, b))
	}
}

func (r *Resolver) inRange(p Probe, maxIndex uint32) bool {
	if p.Index > maxIndex {
		return false
	}
	for _, v := range r.opts.Variants {
		if v == p.Variant {
			return true
		}
	}
	return false
}

func (r *Resolver) found(pk keycodec.PairKey, first, second keycodec.Identifier, loc *PairLocation) *PairLocation {
	loc.Token0, loc.Token1 = first, second
	loc.FetchedAt = time.Now()
	if r.cache != nil {
		r.cache.Put(pk, *loc)
	}
	r.logger.Info("pair located", "token0", first.String(), "token1", second.String(),
		"index", loc.Probe.Index, "variant", loc.Probe.Variant.String(), "key", loc.DictionaryKey)
	return loc
}

// fallback applies the stale-serving policy to a failed resolution.
func (r *Resolver) fallback(ctx context.Context, cached *PairLocation, err error) (*PairLocation, error) {
	transport := errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
	if !r.opts.ServeStale || cached == nil || !transport || errors.Is(ctx.Err(), context.Canceled) {
		return nil, err
	}
	r.logger.Warn("remote read failed, serving cached pair", "err", err,
		"token0", cached.Token0.String(), "token1", cached.Token1.String(), "fetched_at", cached.FetchedAt)
	cached.Stale = true
	return cached, nil
}

// search walks the probe sequence in batches of Concurrency. Within a batch
// every probe is awaited, then outcomes are inspected in trial order, so the
// earliest hit or failure decides exactly as a sequential walk would.
func (r *Resolver) search(ctx context.Context, root string, pk keycodec.PairKey, maxIndex uint32, skip *Probe) (*PairLocation, error) {
	size := r.opts.Concurrency
	if size < 1 {
		size = 1
	}

	batch := make([]Probe, 0, size)
	for p := range Probes(maxIndex, r.opts.Variants) {
		if skip != nil && p == *skip {
			continue
		}
		batch = append(batch, p)
		if len(batch) < size {
			continue
		}
		loc, err := r.probeBatch(ctx, root, pk, batch)
		if loc != nil || err != nil {
			return loc, err
		}
		batch = batch[:0]
	}
	if len(batch) > 0 {
		return r.probeBatch(ctx, root, pk, batch)
	}
	return nil, nil
}

func (r *Resolver) probeBatch(ctx context.Context, root string, pk keycodec.PairKey, batch []Probe) (*PairLocation, error) {
	if len(batch) == 1 {
		return r.probe(ctx, root, pk, batch[0])
	}

	type outcome struct {
		loc *PairLocation
		err error
	}
	results := make([]outcome, len(batch))

	var g errgroup.Group
	g.SetLimit(max(r.opts.Concurrency, 1))
	for i, p := range batch {
		g.Go(func() error {
			loc, err := r.probe(ctx, root, pk, p)
			results[i] = outcome{loc: loc, err: err}
			return err
		})
	}
	waitErr := g.Wait()

	// a failure only wins if no earlier probe hit
	for _, o := range results {
		if o.loc != nil || o.err != nil {
			return o.loc, o.err
		}
	}
	return nil, waitErr
}

// probe issues one dictionary read. (nil, nil) means the slot is empty.
func (r *Resolver) probe(ctx context.Context, root string, pk keycodec.PairKey, p Probe) (*PairLocation, error) {
	if err := callerErr(ctx); err != nil {
		return nil, err
	}

	key := r.opts.Hasher.StorageKey(keycodec.BuildSlotKey(pk, p.Index, p.Variant))
	r.logger.Debug("probing dictionary", "index", p.Index, "variant", p.Variant.String(), "key", key)

	var value *clvalue.TypedValue
	err := r.call(ctx, func(ctx context.Context) error {
		v, err := r.reader.GetDictionaryItem(ctx, root, r.opts.SeedURef, key)
		value = v
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("probe index %d %s: %w", p.Index, p.Variant, err)
	}
	if value == nil {
		return nil, nil
	}

	reserves, err := r.opts.Decoder(*value)
	if err != nil {
		return nil, fmt.Errorf("probe index %d %s: %w", p.Index, p.Variant, err)
	}
	return &PairLocation{
		Probe:         p,
		DictionaryKey: key,
		StateRootHash: root,
		Value:         *value,
		Reserves:      reserves,
	}, nil
}

func (r *Resolver) stateRoot(ctx context.Context) (string, error) {
	var root string
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		root, err = r.reader.GetCurrentStateRoot(ctx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("state root: %w", err)
	}
	return root, nil
}

// call runs fn under the per-call timeout, retrying transport failures up to
// Retries times. Errors come back classified as ErrTimeout or ErrNetwork;
// an expired caller deadline is ErrTimeout, while cancellation and decode
// failures are returned as is.
func (r *Resolver) call(ctx context.Context, fn func(context.Context) error) error {
	op := func() error {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.opts.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		}
		defer cancel()

		err := fn(callCtx)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return backoff.Permanent(callerErr(ctx))
		case errors.Is(err, clvalue.ErrDecode):
			return backoff.Permanent(err)
		case errors.Is(err, ErrTimeout), errors.Is(err, ErrNetwork):
			return err
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		default:
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
	}

	eb := backoff.NewExponentialBackOff(backoff.WithInitialInterval(r.opts.RetryBaseDelay))
	bo := backoff.WithMaxRetries(eb, r.opts.Retries)
	err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), func(err error, d time.Duration) {
		r.logger.Debug("retrying remote read", "err", err, "in", d)
	})
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrTimeout) && errors.Is(err, context.DeadlineExceeded) {
		return callerErr(ctx)
	}
	return err
}

// callerErr reports why ctx is done. An expired deadline is a timeout;
// cancellation is returned unwrapped.
func callerErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
