// Package middleware holds the admin guards for both services.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"intake-backend/internal/auth"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	tokenKey     contextKey = "token"
	sessionKey   contextKey = "session_id"
)

// BearerAuth rejects requests without a live bearer token and stores the
// token's principal in the request context.
func BearerAuth(tokens auth.TokenStore, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			principal, err := tokens.Authorize(r.Context(), token)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("bearer token rejected")
				unauthorized(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal returns the authenticated admin, or "" outside BearerAuth.
func GetPrincipal(ctx context.Context) string {
	principal, _ := ctx.Value(principalKey).(string)
	return principal
}

// GetToken returns the bearer token that authorized the request.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SessionID loads the signed session cookie, if any, into the context. It
// never rejects; handlers decide what an anonymous session may do.
func SessionID(codec *auth.CookieCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := codec.SessionID(r)
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sid)))
		})
	}
}

func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionKey).(string)
	return sid
}
