package security

import (
	"context"
	"fmt"
	"slices"
	"solution_share/internal/common"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the caller identity resolved from a bearer token.
type Principal struct {
	UID      string
	Email    string
	IssuedAt time.Time
}

// Authenticator resolves a bearer credential. Failures wrap
// common.ErrUnauthorized, or common.ErrServiceUnavailable when the
// verifier itself cannot answer.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type JWTAuthenticator struct {
	auth     *jwtauth.JWTAuth
	issuer   string
	audience string
	ttl      time.Duration
}

func NewJWTAuthenticator(secret []byte, issuer, audience string, ttl time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{
		auth:     jwtauth.New("HS256", secret, nil),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("authorization token required: %w", common.ErrUnauthorized)
	}
	tok, err := jwtauth.VerifyToken(a.auth, token)
	if err != nil {
		return nil, fmt.Errorf("invalid token (%v): %w", err, common.ErrUnauthorized)
	}
	if a.issuer != "" && tok.Issuer() != a.issuer {
		return nil, fmt.Errorf("unexpected issuer: %w", common.ErrUnauthorized)
	}
	if a.audience != "" && !slices.Contains(tok.Audience(), a.audience) {
		return nil, fmt.Errorf("unexpected audience: %w", common.ErrUnauthorized)
	}

	email, _ := tok.PrivateClaims()["email"].(string)
	p := &Principal{UID: tok.Subject(), Email: email, IssuedAt: tok.IssuedAt()}
	if p.UID == "" || p.Email == "" || p.IssuedAt.IsZero() {
		return nil, fmt.Errorf("token is missing sub, email or iat: %w", common.ErrUnauthorized)
	}
	return p, nil
}

// IssueToken signs a token the way the identity provider would. Used by the
// devtoken command and tests.
func (a *JWTAuthenticator) IssueToken(uid, email string, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(a.ttl).Unix(),
	}
	if a.issuer != "" {
		claims["iss"] = a.issuer
	}
	if a.audience != "" {
		claims["aud"] = a.audience
	}
	_, tokenString, err := a.auth.Encode(claims)
	return tokenString, err
}
