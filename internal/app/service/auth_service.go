package service

import (
	"context"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/common/security"
	"solution_share/internal/domain/repository"
	"time"
)

// RevocationSource reports the per-user token watermark.
type RevocationSource interface {
	TokensValidAfter(ctx context.Context, userID string) (time.Time, error)
}

// AuthService verifies bearer tokens and applies per-user revocation.
type AuthService struct {
	authenticator security.Authenticator
	revocations   RevocationSource
}

func NewAuthService(authenticator security.Authenticator, revocations RevocationSource) *AuthService {
	return &AuthService{authenticator: authenticator, revocations: revocations}
}

// Authenticate resolves token to a principal. A token issued in an earlier
// second than the user's watermark is revoked; a token from the same second
// is still accepted.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*security.Principal, error) {
	p, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	watermark, err := s.revocations.TokensValidAfter(ctx, p.UID)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %v: %w", err, common.ErrServiceUnavailable)
	}
	if !watermark.IsZero() && p.IssuedAt.Unix() < watermark.Unix() {
		return nil, fmt.Errorf("token has been revoked: %w", common.ErrUnauthorized)
	}
	return p, nil
}

var _ RevocationSource = (repository.ReadService)(nil)
