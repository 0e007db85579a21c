package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrStoreUnavailable  = errors.New("rate limiter store unavailable")
	ErrAlreadyStarted    = errors.New("memory store already started")
	ErrNotStarted        = errors.New("memory store not started")
	ErrCleanupDisabled   = errors.New("memory store cleanup disabled")
	ErrShutdownTimeout   = errors.New("memory store shutdown timeout exceeded")
)
