// Package logger provides slog attribute helpers and a small logger factory
// shared by the router, the middleware and the CLI.
//
// Attribute helpers keep keys consistent across components:
//
//	log.Error("panic recovered",
//		logger.Error(err),
//		logger.Method(r.Method),
//		logger.Route("/users/:id"),
//		logger.RequestID(id),
//	)
//
// Helpers taking optional values (errors, ids, patterns) return an empty
// slog.Attr for zero input, which slog ignores.
//
// New builds a text or JSON logger:
//
//	level, _ := logger.ParseLevel(cfg.LogLevel)
//	log := logger.New(logger.WithLevel(level), logger.WithJSON())
package logger
