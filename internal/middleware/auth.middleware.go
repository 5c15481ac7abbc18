package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"agricure-auth-service/pkg/response"
)

type contextKey string

const (
	ContextUserID      contextKey = "user_id"
	ContextAccessToken contextKey = "access_token"
)

// Auth verifies provider-issued access tokens (HS256, shared secret) and
// stashes the subject plus the raw token in the request context. The token is
// the provider's; this service only checks it and passes it back on outbound
// calls.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r)
		if raw == "" {
			response.Error(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		token, err := jwt.Parse([]byte(raw),
			jwt.WithKey(jwa.HS256, a.secret),
			jwt.WithValidate(true),
		)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, token.Subject())
		ctx = context.WithValue(ctx, ContextAccessToken, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// UserIDFrom returns the verified token subject, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextUserID).(string)
	return v, ok && v != ""
}

// AccessTokenFrom returns the raw bearer token, if any.
func AccessTokenFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextAccessToken).(string)
	return v, ok && v != ""
}
