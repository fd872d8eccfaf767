package logger

import "context"

type ctxKey int

const requestIDCtxKey ctxKey = iota

// WithRequestID stores the request ID in the context so layers below the
// HTTP surface can tag their log lines with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, requestID)
}

// GetRequestID returns the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDCtxKey).(string); ok {
		return requestID
	}
	return ""
}
