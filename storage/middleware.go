// This file defines the middleware chain wrapped around every Collection
// operation: a global Use/dispatchOperation pipeline, plus a LogMiddleware
// that logs through zerolog.
package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Operation names the kind of work a Collection dispatches through the
// middleware chain.
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationFind   Operation = "find"
)

// Handler is the function signature executed at the bottom of the
// middleware chain.
type Handler func(ctx context.Context, op Operation, collection string) error

// Middleware wraps a Handler with cross-cutting behavior.
type Middleware func(next Handler) Handler

var globalMiddlewareList []Middleware

// Use registers mw, applied to every Collection operation across the
// process. Middlewares wrap in registration order: the first registered
// one runs outermost, the most recently registered one innermost.
func Use(mw Middleware) {
	globalMiddlewareList = append(globalMiddlewareList, mw)
}

func runMiddlewares(final Handler) Handler {
	h := final
	for i := len(globalMiddlewareList) - 1; i >= 0; i-- {
		h = globalMiddlewareList[i](h)
	}
	return h
}

func dispatchOperation(ctx context.Context, op Operation, collection string, exec func() error) error {
	handler := runMiddlewares(func(ctx context.Context, op Operation, collection string) error {
		return exec()
	})
	return handler(ctx, op, collection)
}

// LogMiddleware logs every operation's duration and outcome through
// zerolog's global logger.
func LogMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, op Operation, collection string) error {
			start := time.Now()
			err := next(ctx, op, collection)
			evt := log.Info()
			if err != nil {
				evt = log.Error().Err(err)
			}
			evt.Str("op", string(op)).
				Str("collection", collection).
				Dur("elapsed", time.Since(start)).
				Msg("storage operation")
			return err
		}
	}
}
