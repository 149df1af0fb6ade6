package auth

import (
	"context"
)

// Context keys for authentication data
type contextKey string

const (
	// ContextKeySubject is the context key for the authenticated admin subject
	ContextKeySubject contextKey = "subject"
	// ContextKeyTokenID is the context key for the admin token id (jti)
	ContextKeyTokenID contextKey = "token_id"
)

// WithSubject adds the admin subject to the context
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ContextKeySubject, subject)
}

// SubjectFromContext retrieves the admin subject from the context
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(ContextKeySubject).(string)
	return sub, ok
}

// WithTokenID adds the admin token id to the context
func WithTokenID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyTokenID, id)
}

// TokenIDFromContext retrieves the admin token id from the context
func TokenIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeyTokenID).(string)
	return id, ok
}
