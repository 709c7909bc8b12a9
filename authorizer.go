package todovault

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier verifies RS256 bearer credentials against a fixed trusted
// certificate's public key.
//
// Every failure mode (missing header, wrong scheme, malformed token,
// signature mismatch, expiry) collapses into ErrUnauthorized; callers are
// given no detail distinguishing the cases.
type TokenVerifier struct {
	key    *rsa.PublicKey
	leeway time.Duration
}

// NewTokenVerifier creates a verifier for the given RSA public key. The
// leeway is the clock-skew tolerance applied to time-based claims.
func NewTokenVerifier(key *rsa.PublicKey, leeway time.Duration) (*TokenVerifier, error) {
	if key == nil {
		return nil, fmt.Errorf("new token verifier: %w: trusted key cannot be nil", ErrInvalidInput)
	}
	return &TokenVerifier{key: key, leeway: leeway}, nil
}

// Verify validates an Authorization header of the form "Bearer <token>"
// (case-insensitive scheme) and returns the subject embedded in the verified
// token payload.
func (v *TokenVerifier) Verify(authHeader string) (string, error) {
	tokenString, err := bearerToken(authHeader)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("verify token: %w", ErrUnauthorized)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("verify token: %w", ErrUnauthorized)
	}

	return subject, nil
}

// Authorize turns a credential into a structural allow/deny decision with a
// wildcard resource scope. It never returns an error; any verification
// failure produces a deny decision with no principal resolved.
func (v *TokenVerifier) Authorize(authHeader string) Decision {
	subject, err := v.Verify(authHeader)
	if err != nil {
		return Decision{Allow: false, Resource: WildcardResource}
	}
	return Decision{Principal: subject, Allow: true, Resource: WildcardResource}
}

func bearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header: %w", ErrUnauthorized)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("invalid authorization header: %w", ErrUnauthorized)
	}

	if parts[1] == "" {
		return "", fmt.Errorf("empty bearer token: %w", ErrUnauthorized)
	}

	return parts[1], nil
}
