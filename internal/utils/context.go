// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, identifier
// generation, and other common operations.
package utils

import (
	"context"

	"github.com/clepord34/pawres/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the identifier of the signed-in
// user in the context once a request has passed authorization.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, int64(42))
var UserIDCtxKey = contextKey("userID")

// SessionCtxKey is the key under which the session middleware stores the
// request's [SessionRef].
var SessionCtxKey = contextKey("session")

// GetUserIDFromContext returns the signed-in user's ID. ok is false when
// the value is missing or is not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// SessionRef is the request-scoped handle of a server-side session. Token
// is empty when the request carried no known session cookie.
type SessionRef struct {
	Token   string
	Session models.Session
}

// WithSession returns a copy of ctx carrying ref.
func WithSession(ctx context.Context, ref *SessionRef) context.Context {
	return context.WithValue(ctx, SessionCtxKey, ref)
}

// GetSessionFromContext retrieves the session handle stored by
// [WithSession]. The returned pointer is shared with the middleware chain,
// so changes made to it are visible to later middleware.
func GetSessionFromContext(ctx context.Context) (*SessionRef, bool) {
	ref, ok := ctx.Value(SessionCtxKey).(*SessionRef)
	return ref, ok && ref != nil
}
