package contextx

import "context"

// Key is a private type to avoid collisions in request context keys.
type Key string

// UserIDKey is the context key used to store the authenticated user's ID (string).
const UserIDKey Key = "userID"

// SessionIDKey is the context key used to store the current session ID (string).
const SessionIDKey Key = "sessionID"

// RoleKey is the context key used to store the authenticated user's role (string).
const RoleKey Key = "role"

// UserID returns the authenticated user's ID, if any.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(UserIDKey).(string)
	return v, ok && v != ""
}

// SessionID returns the current session ID, if any.
func SessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(SessionIDKey).(string)
	return v, ok && v != ""
}

// Role returns the authenticated user's role, if any.
func Role(ctx context.Context) string {
	v, _ := ctx.Value(RoleKey).(string)
	return v
}
