package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intake-backend/internal/auth"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetPrincipal(r.Context()) + "|" + GetToken(r.Context())))
	})
}

func TestBearerAuth(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := auth.NewMemoryTokenStore(time.Hour)
	token, err := store.Issue(context.Background(), "admin")
	require.NoError(t, err)

	h := BearerAuth(store, log)(echoPrincipal())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "admin|" + token},
		{"missing", "", http.StatusUnauthorized, auth.ErrMissingHeader.Error()},
		{"malformed", "Token " + token, http.StatusUnauthorized, auth.ErrMalformedHeader.Error()},
		{"unknown", "Bearer nope", http.StatusUnauthorized, auth.ErrExpiredOrUnknown.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["error"])
		})
	}
}

func TestSessionIDMiddleware(t *testing.T) {
	codec := auth.NewCookieCodec("secret", time.Hour, false)
	h := SessionID(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetSessionID(r.Context())))
	}))

	set := httptest.NewRecorder()
	require.NoError(t, codec.Set(set, "sid-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	for _, c := range set.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "sid-1", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin", nil))
	assert.Empty(t, rec.Body.String())
}
