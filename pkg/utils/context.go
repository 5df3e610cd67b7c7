package utils

import (
	"context"

	"github.com/google/uuid"
)

type ContextKey string

const (
	UserKey      ContextKey = "user"
	UserIDCtxKey ContextKey = "user_id"
	UserIDKey    string     = "user_id"
	ExpKey       string     = "exp"
)

// CurrentUserID returns the authenticated user's id set by the JWT middleware.
func CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
