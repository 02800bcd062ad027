package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-portal/internal/core/kvstore"
	"shipment-portal/internal/features/auth/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionRepository implements ports.SessionStore on top of the kvstore
// port. Each session lives under its own token key so independent clients do
// not evict each other.
type RedisSessionRepository struct {
	store kvstore.Store
	ttl   time.Duration
}

// NewRedisSessionRepository creates a new RedisSessionRepository. A ttl of 0
// keeps sessions until logout.
func NewRedisSessionRepository(store kvstore.Store, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		store: store,
		ttl:   ttl,
	}
}

// Save persists the session under its token.
func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.store.Set(ctx, sessionKeyPrefix+session.Token, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Find returns the session for a token, or (nil, nil) when unknown.
func (r *RedisSessionRepository) Find(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.store.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session for a token.
func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.store.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
