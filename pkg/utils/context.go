package utils

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the ID of the request being served.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request ID stored by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)

	return requestID, ok && requestID != ""
}
