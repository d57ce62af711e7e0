package anonymous

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and validates anonymous session tokens. Anonymous sessions
// own device-scoped carts until the visitor signs in.
type Service struct {
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:     newTokenManager(),
		accessTTL:  3 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// Issue creates a fresh anonymous identity with access and refresh tokens.
func (s *Service) Issue(ctx context.Context) (accessToken, refreshToken, anonymousID string, err error) {
	anonID, err := randomID()
	if err != nil {
		return "", "", "", err
	}
	accessToken, err = s.tokens.Issue(anonID, s.accessTTL)
	if err != nil {
		return "", "", "", err
	}
	refreshToken, err = s.tokens.Issue(anonID, s.refreshTTL)
	if err != nil {
		return "", "", "", err
	}
	return accessToken, refreshToken, anonID, nil
}

// LookupByToken resolves a token to its anonymous ID.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.AnonymousID, nil
}

func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
