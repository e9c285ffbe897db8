// Package credstore provides process-local credential stores: an in-memory
// store and an owner-only JSON file. Both keep the two credential entries
// with independent expirations and drop expired entries on load.
package credstore

import (
	"net/http"
	"time"

	domainauth "github.com/target/storefront/internal/domain/auth"
)

// Entry is one persisted credential with its attributes.
type Entry struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HTTPOnly bool      `json:"http_only"`
	SameSite string    `json:"same_site"`
}

func entriesFor(policy domainauth.CredentialPolicy, creds domainauth.Credentials, now time.Time) []Entry {
	cookies := policy.Cookies(creds, now)
	entries := make([]Entry, 0, len(cookies))
	for _, c := range cookies {
		entries = append(entries, Entry{
			Name:     c.Name,
			Value:    c.Value,
			Expires:  c.Expires.UTC(),
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
			SameSite: sameSiteName(c.SameSite),
		})
	}
	return entries
}

// credentialsFrom assembles the live entries into Credentials.
func credentialsFrom(entries []Entry, now time.Time) domainauth.Credentials {
	var creds domainauth.Credentials
	for _, e := range entries {
		if !e.Expires.IsZero() && !now.Before(e.Expires) {
			continue
		}
		switch e.Name {
		case domainauth.AccessTokenEntry:
			creds.AccessToken = e.Value
		case domainauth.RefreshTokenEntry:
			creds.RefreshToken = e.Value
		}
	}
	return creds
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}
