// Package utils provides general-purpose helpers used across the service:
// context keys, session tokens, HTTP response writing, the resty client,
// id generation and the display formatting of dashboard values.
package utils

import (
	"context"

	"github.com/MKhiriev/go-institute-sync/models"
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

// SessionCtxKey is the key used to store the [models.Session] of the
// signed-in user in the request context.
var SessionCtxKey = contextKey("session")

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, SessionCtxKey, session)
}

// SessionFromContext retrieves the session stored by [WithSession].
//
// Returns ok == false when no session is stored or the stored value has an
// unexpected type.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(SessionCtxKey).(models.Session)
	return session, ok
}
