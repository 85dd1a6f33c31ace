package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NonceTTL bounds how long a builder page can sit open before its save
// token goes stale and the client has to reload.
const NonceTTL = 10 * time.Minute

type nonceClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// IssueNonce mints a short-lived anti-forgery token bound to one action
// scope (for example "ms_form_builder_save"). The token proves the request
// originated from a page the server rendered, not from a forged cross-site
// post.
func IssueNonce(secret, scope string) (string, error) {
	claims := nonceClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(NonceTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyNonce reports whether tokenStr is a valid, unexpired nonce for the
// given scope. A token issued for another action never verifies.
func VerifyNonce(secret, tokenStr, scope string) bool {
	token, err := jwt.ParseWithClaims(tokenStr, &nonceClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(*nonceClaims)
	return ok && claims.Scope == scope
}
