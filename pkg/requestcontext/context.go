// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and handlers read
// them without importing net/http.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	clerkIDKey     struct{}
	locationIDKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyClerkID     = clerkIDKey{}
	ContextKeyLocationID  = locationIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// ClerkID retrieves the authenticated clerk id from the context.
func ClerkID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyClerkID).(string); ok {
		return v
	}
	return ""
}

// WithClerkID injects an authenticated clerk id into the context.
func WithClerkID(ctx context.Context, clerkID string) context.Context {
	return context.WithValue(ctx, ContextKeyClerkID, clerkID)
}

// LocationID retrieves the issuing-office location from the context.
func LocationID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyLocationID).(string); ok {
		return v
	}
	return ""
}

// WithLocationID injects an issuing-office location into the context.
func WithLocationID(ctx context.Context, locationID string) context.Context {
	return context.WithValue(ctx, ContextKeyLocationID, locationID)
}

// RequestID retrieves the request id from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from the context. Falls back to
// time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for unit tests
// that don't run the full middleware chain and for batch operations that
// need one consistent timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
