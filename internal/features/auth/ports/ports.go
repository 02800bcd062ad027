package ports

import (
	"context"

	"shipment-portal/internal/features/auth/domain"
)

// AuthAPI defines the secondary port for the upstream authentication
// endpoint.
type AuthAPI interface {
	// Login exchanges credentials for a session. Transport and credential
	// failures surface as errors; there is no retry.
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

// SessionStore defines the secondary port for session persistence.
type SessionStore interface {
	// Save persists the session under its token.
	Save(ctx context.Context, session *domain.Session) error
	// Find returns the session for a token, or (nil, nil) when the token is
	// unknown or expired.
	Find(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes the session for a token. Deleting an unknown token is
	// not an error.
	Delete(ctx context.Context, token string) error
}
