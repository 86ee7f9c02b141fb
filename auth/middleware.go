package auth

import (
	"context"
	"net/http"

	"github.com/user/tasklist-go/users"
)

// CurrentUserResolver maps a raw Authorization header value to a user.
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, rawToken string) *users.User
}

// Middleware resolves the caller once per request and stores it in the
// request context. It never rejects a request: each operation decides for
// itself whether it needs a caller.
func Middleware(resolver CurrentUserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolver.ResolveCurrentUser(r.Context(), r.Header.Get("Authorization"))
			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}
