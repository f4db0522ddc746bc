package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Resolver extracts the caller's identity from HS256 bearer tokens signed by
// the identity provider. A zero-value Resolver ignores every token.
type Resolver struct {
	secret []byte
}

// NewResolver creates a resolver that verifies tokens with secret.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// Subject validates token and returns its "sub" claim.
func (r *Resolver) Subject(token string) (string, error) {
	if r == nil || len(r.secret) == 0 {
		return "", errors.New("token verification is not configured")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// ProfileID picks the profile a request acts for: the bearer token's
// subject when it verifies, otherwise fallback. Token problems are not
// reported to the caller.
func (r *Resolver) ProfileID(c *gin.Context, fallback string) string {
	token, ok := BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return fallback
	}
	sub, err := r.Subject(token)
	if err != nil {
		return fallback
	}
	return sub
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
