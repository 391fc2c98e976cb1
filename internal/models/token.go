package models

import (
	"time"
)

// TokenPair represents the access and refresh token pair issued by Tyms
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"-"` // Never sent directly, stored in HTTP-only cookie
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"-"`
}

// NewTokenPair creates a token pair with expiries derived from the given lifetimes
func NewTokenPair(accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) TokenPair {
	now := time.Now()
	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(accessTTL),
		RefreshExpiresAt: now.Add(refreshTTL),
	}
}

// Valid reports whether the pair is fully present. A pair missing either
// token must not be treated as authenticated.
func (t TokenPair) Valid() bool {
	return t.AccessToken != "" && t.RefreshToken != ""
}

// Empty reports whether the pair holds no tokens at all
func (t TokenPair) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}
