package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Names of the two persisted credential entries.
const (
	AccessTokenEntry  = "access_token"
	RefreshTokenEntry = "refresh_token"
)

// Credentials is the token pair mirrored into durable storage.
// Both entries are set together or cleared together.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Empty reports whether neither token is present.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Complete reports whether both tokens are present.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// CredentialPolicy controls the lifetime and attributes of persisted entries.
type CredentialPolicy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// DefaultCredentialPolicy returns one day for access, seven days for refresh.
func DefaultCredentialPolicy() CredentialPolicy {
	return CredentialPolicy{
		AccessTTL:  24 * time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		Secure:     true,
	}
}

// AccessExpiry returns when the persisted access entry expires. The token's
// own exp claim is ignored: an expired token is still sent so the backend's
// 401 drives the refresh.
func (p CredentialPolicy) AccessExpiry(now time.Time) time.Time {
	return now.Add(p.AccessTTL)
}

// RefreshExpiry returns when the persisted refresh entry expires.
func (p CredentialPolicy) RefreshExpiry(now time.Time) time.Time {
	return now.Add(p.RefreshTTL)
}

// Cookies renders the persisted layout: one entry per token with its own
// expiry, strict same-site policy, and the secure flag from the policy.
func (p CredentialPolicy) Cookies(creds Credentials, now time.Time) []*http.Cookie {
	cookies := make([]*http.Cookie, 0, 2)
	if creds.AccessToken != "" {
		cookies = append(cookies, p.cookie(AccessTokenEntry, creds.AccessToken, p.AccessExpiry(now)))
	}
	if creds.RefreshToken != "" {
		cookies = append(cookies, p.cookie(RefreshTokenEntry, creds.RefreshToken, p.RefreshExpiry(now)))
	}
	return cookies
}

func (p CredentialPolicy) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   p.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client never holds the signing key; the value is informational only.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
