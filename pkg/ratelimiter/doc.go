// Package ratelimiter provides token bucket rate limiting over pluggable stores.
//
// A Bucket holds the limit parameters and delegates state to a Store.
// MemoryStore keeps buckets in process memory and removes idle ones in a
// background loop. RedisStore keeps them in Redis hashes, refilling and
// consuming in one Lua script so instances share a limit.
//
// Denied requests never consume tokens: a negative Result.Remaining tells
// how many tokens were missing.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Start(ctx)
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		wait := res.RetryAfter()
//		...
//	}
//
// Distributed limits:
//
//	client, err := ratelimiter.Connect(ctx, ratelimiter.RedisConfig{URL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client), cfg)
//
// Config and RedisConfig carry env tags (RATELIMIT_*) for core/config.
package ratelimiter
