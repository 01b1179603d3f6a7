// Package auth issues and verifies the bearer tokens that protect the
// agent-facing endpoints. Tokens are HMAC-signed JWTs carrying the agent
// identity and role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// RoleAgent marks tokens belonging to delivery agents.
const RoleAgent = "agent"

// Claims are the application claims carried in each token.
type Claims struct {
	AgentID int64  `json:"agentId"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies bearer tokens and extracts their claims.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier over the shared HMAC secret.
func NewTokenVerifier(secret string) TokenVerifier {
	return TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates a token string.
// Any failure maps to ErrInvalidToken so callers cannot distinguish why a
// token was rejected.
func (v TokenVerifier) Verify(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.AgentID <= 0 || claims.Role == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// TokenIssuer signs tokens for authenticated agents.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer over the shared HMAC secret.
func NewTokenIssuer(secret string, ttl time.Duration) TokenIssuer {
	return TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given agent.
func (i TokenIssuer) Issue(agentID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		AgentID: agentID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
