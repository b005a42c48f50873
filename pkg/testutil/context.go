package testutil

import (
	"net/http"
	"time"

	"licentia/pkg/requestcontext"
)

// WithClerkAuth adds a clerk identity to the request context, simulating
// what the auth middleware does for authenticated requests.
func WithClerkAuth(req *http.Request, clerkID, locationID string) *http.Request {
	ctx := req.Context()
	if clerkID != "" {
		ctx = requestcontext.WithClerkID(ctx, clerkID)
	}
	if locationID != "" {
		ctx = requestcontext.WithLocationID(ctx, locationID)
	}
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped time, so handler tests control
// every timestamp the service stamps.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
