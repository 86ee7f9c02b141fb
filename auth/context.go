package auth

import (
	"context"

	"github.com/user/tasklist-go/users"
)

type contextKey string

const userContextKey contextKey = "current_user"

// NewContextWithUser returns a child context carrying the resolved caller.
// A nil user is stored as "no caller".
func NewContextWithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the caller resolved for this request, if any.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userContextKey).(*users.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
