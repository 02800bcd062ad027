package adapters

import (
	"context"
	"testing"
	"time"

	"shipment-portal/internal/core/kvstore"
	"shipment-portal/internal/features/auth/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRepo(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := kvstore.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewRedisSessionRepository(store, ttl), mr
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndFind", func(t *testing.T) {
		repo, _ := setupSessionRepo(t, 0)

		session := &domain.Session{Token: "tok-123", Role: "admin"}
		require.NoError(t, repo.Save(ctx, session))

		found, err := repo.Find(ctx, "tok-123")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "tok-123", found.Token)
		assert.Equal(t, "admin", found.Role)
	})

	t.Run("UnknownTokenIsNil", func(t *testing.T) {
		repo, _ := setupSessionRepo(t, 0)

		found, err := repo.Find(ctx, "never-issued")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("TokensAreIndependent", func(t *testing.T) {
		repo, _ := setupSessionRepo(t, 0)

		require.NoError(t, repo.Save(ctx, &domain.Session{Token: "tok-admin", Role: "admin"}))
		require.NoError(t, repo.Save(ctx, &domain.Session{Token: "tok-customer", Role: "customer"}))

		require.NoError(t, repo.Delete(ctx, "tok-customer"))

		found, err := repo.Find(ctx, "tok-admin")
		require.NoError(t, err)
		require.NotNil(t, found)

		found, err = repo.Find(ctx, "tok-customer")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("DeleteUnknownTokenIsNotAnError", func(t *testing.T) {
		repo, _ := setupSessionRepo(t, 0)
		assert.NoError(t, repo.Delete(ctx, "never-issued"))
	})

	t.Run("SessionExpires", func(t *testing.T) {
		repo, mr := setupSessionRepo(t, 30*time.Minute)

		require.NoError(t, repo.Save(ctx, &domain.Session{Token: "tok-123", Role: "customer"}))
		mr.FastForward(31 * time.Minute)

		found, err := repo.Find(ctx, "tok-123")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
