package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when Load gets anything but a non-nil
// pointer to a struct.
var ErrInvalidTarget = errors.New("config target must be a non-nil pointer to struct")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> reflect.Value (struct copy)
	loadMu     sync.Mutex
)

// Load fills cfg from the environment. The first call for a type parses the
// environment and caches the result; later calls for the same type copy the
// cached value. A .env file in the working directory is loaded once, without
// overriding variables that are already set.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrInvalidTarget
	}
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %s", ErrInvalidTarget, rt)
	}

	if cached, ok := cache.Load(rt); ok {
		*cfg = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(rt); ok {
		*cfg = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})

	var v T
	if err := env.Parse(&v); err != nil {
		return fmt.Errorf("parse %s from environment: %w", rt, err)
	}

	cache.Store(rt, v)
	*cfg = v
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
