package models

import "time"

// AuthToken is a bearer token held by the scheme service's token store.
type AuthToken struct {
	Token     string    `json:"token"`
	Principal string    `json:"principal"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
