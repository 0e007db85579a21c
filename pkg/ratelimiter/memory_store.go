package ratelimiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const defaultStaleAfter = time.Hour

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// MemoryStore keeps buckets in process memory. Buckets unused for longer
// than the stale threshold are dropped by the cleanup loop started with Start.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	cleanupInterval time.Duration
	staleAfter      time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time

	created atomic.Int64
	removed atomic.Int64
}

var _ Store = (*MemoryStore)(nil)

// MemoryStoreStats is a snapshot of store counters.
type MemoryStoreStats struct {
	BucketsCreated int64
	BucketsRemoved int64
	ActiveBuckets  int
	IsRunning      bool
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often stale buckets are removed.
// Zero disables the cleanup loop.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithStaleAfter sets how long a bucket may stay unused before cleanup removes it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// WithMemoryStoreShutdownTimeout bounds how long Stop waits for a running cleanup.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger used by the cleanup loop.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithMemoryStoreClock overrides the time source.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an empty store. Call Start or Run to enable cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucketState),
		cleanupInterval: 5 * time.Minute,
		staleAfter:      defaultStaleAfter,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens implements Store.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
		ms.created.Add(1)
	}
	b.lastSeen = now

	// Cap the interval count so huge idle gaps cannot overflow.
	limit := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), limit))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// Start runs the cleanup loop until ctx is done or Stop is called.
// It blocks; run it in a goroutine or use Run.
func (ms *MemoryStore) Start(ctx context.Context) error {
	if ms.cleanupInterval <= 0 {
		return ErrCleanupDisabled
	}

	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.logger.InfoContext(ctx, "rate limiter cleanup started",
		slog.Duration("interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ms.mu.Lock()
			ms.cancel = nil
			ms.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			ms.wg.Add(1)
			ms.removeStale()
			ms.wg.Done()
		}
	}
}

// Stop cancels the cleanup loop and waits for a running pass to finish.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()
	if cancel == nil {
		return ErrNotStarted
	}
	cancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.Info("rate limiter cleanup stopped")
		return nil
	case <-time.After(ms.shutdownTimeout):
		return fmt.Errorf("%w: %s", ErrShutdownTimeout, ms.shutdownTimeout)
	}
}

// Run adapts Start for lifecycle groups: it returns nil on normal shutdown.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		err := ms.Start(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// Stats returns a snapshot of the store counters.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return MemoryStoreStats{
		BucketsCreated: ms.created.Load(),
		BucketsRemoved: ms.removed.Load(),
		ActiveBuckets:  len(ms.buckets),
		IsRunning:      ms.cancel != nil,
	}
}

func (ms *MemoryStore) removeStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	var removed int64
	for key, b := range ms.buckets {
		if now.Sub(b.lastSeen) > ms.staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}
	if removed > 0 {
		ms.removed.Add(removed)
		ms.logger.Debug("rate limiter buckets removed", slog.Int64("count", removed))
	}
}

// Healthcheck fails when cleanup is configured but not running.
func (ms *MemoryStore) Healthcheck(context.Context) error {
	if ms.cleanupInterval > 0 && !ms.Stats().IsRunning {
		return fmt.Errorf("%w: cleanup is configured but not running", ErrNotStarted)
	}
	return nil
}
