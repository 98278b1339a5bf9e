package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
)

type callerKey struct{}

// TokenParser validates a session token and returns its user.
type TokenParser interface {
	Parse(token string) (*auth.User, error)
}

// WithCaller stores the authenticated user in ctx.
func WithCaller(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, callerKey{}, u)
}

// Caller returns the user stored by Session.
func Caller(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(callerKey{}).(auth.User)
	return u, ok
}

// Session rejects requests without a valid "Authorization: Bearer <token>"
// header.
func Session(tp TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			u, err := tp.Parse(token)
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), *u)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(h[len("Bearer "):])

	return token, token != ""
}
