package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedToken returns an HS256 JWT for subject expiring at exp.
func SignedToken(t TestingTB, subject string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("storefront-test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return s
}
