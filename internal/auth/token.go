// Package auth turns bearer tokens into verified principals.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenResolver(secret, issuer string) *TokenResolver {
	return &TokenResolver{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Sign issues an HS256 token for p that expires after ttl.
func (r *TokenResolver) Sign(p domain.Principal, ttl time.Duration) (string, error) {
	if p.ID == "" || p.Role == "" {
		return "", errors.New("principal id and role are required")
	}

	now := r.now()
	claims := Claims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// Resolve verifies token and returns the principal it names. Any failure is
// reported as apperrors.ErrUnauthenticated.
func (r *TokenResolver) Resolve(_ context.Context, token string) (domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Principal{}, apperrors.Unauthenticated("missing bearer token")
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(r.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return domain.Principal{}, apperrors.Unauthenticated("invalid or expired token")
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Subject == "" || c.Role == "" {
		return domain.Principal{}, apperrors.Unauthenticated("token does not identify a user")
	}

	return domain.Principal{ID: c.Subject, Role: domain.Role(c.Role)}, nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
