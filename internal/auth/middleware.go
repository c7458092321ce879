package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
)

type ctxKey struct{}

// ErrorWriter renders an error response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Require rejects requests without a valid "Authorization: Bearer <token>".
func (t *Tokens) Require(writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeErr(w, r, apperr.Unauthorized("Authorization header is required"))
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeErr(w, r, apperr.Unauthorized("Invalid authorization header format"))
				return
			}
			claims, err := t.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				writeErr(w, r, apperr.Unauthorized("Invalid token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// FromContext returns the claims stored by Require.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}
