package core

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxKeySessionID contextKey = "session_id"
	ctxKeyIPAddress contextKey = "client_ip"
)

// ContextWithSessionID adds the form session id to context for logging.
func ContextWithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, id)
}

// ContextWithIPAddress adds the client IP address to context for logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// SessionIDFromContext extracts the session id; uuid.Nil when absent.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(ctxKeySessionID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// IPAddressFromContext extracts the client IP address.
func IPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
