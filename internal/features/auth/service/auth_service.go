package service

import (
	"context"
	"fmt"

	"shipment-portal/internal/features/auth/domain"
	"shipment-portal/internal/features/auth/ports"
)

// AuthService handles login, logout and session lookup. Credential checks
// happen upstream; this service only persists what the upstream issued.
type AuthService struct {
	api      ports.AuthAPI
	sessions ports.SessionStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(api ports.AuthAPI, sessions ports.SessionStore) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
	}
}

// Login authenticates against the upstream and persists the issued session.
// A failed login persists nothing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

// Logout clears the session for a token. Logging out an unknown token
// succeeds; the result is the same either way.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SessionFromToken resolves a bearer token to its session, or (nil, nil) when
// the token is unknown.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessions.Find(ctx, token)
}
