package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "feedback_session"

// CookieCodec signs session ids into the session cookie so a client cannot
// pick another session's id.
type CookieCodec struct {
	secret   []byte
	lifetime time.Duration
	secure   bool
}

func NewCookieCodec(secret string, lifetime time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), lifetime: lifetime, secure: secure}
}

// SessionID returns the verified session id carried by r, or "" when the
// cookie is absent, expired or tampered with.
func (c *CookieCodec) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.ID
}

func (c *CookieCodec) Set(w http.ResponseWriter, sid string) error {
	if sid == "" {
		return errors.New("empty session id")
	}
	expires := time.Now().Add(c.lifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	value, err := token.SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
