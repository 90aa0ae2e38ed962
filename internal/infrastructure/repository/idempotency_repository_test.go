package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	job := &entity.IdempotencyKey{
		Key:         "print-1",
		UserID:      user,
		Endpoint:    "/api/v1/receipts/print",
		RequestHash: "abc",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	ok, err := repo.Reserve(ctx, job)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := repo.GetByKey(ctx, "print-1", user)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.True(t, pending.IsPending())

	job.ResponseCode = 200
	job.ResponseBody = `{"success":true}`
	require.NoError(t, repo.Complete(ctx, job))

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{
		Key: "old", UserID: user, Endpoint: "/api/v1/receipts/print", ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByKey(ctx, "print-1", user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.ResponseCode)
	assert.True(t, got.Matches("abc"))
	assert.False(t, got.Matches("def"))
	assert.False(t, got.IsExpired())

	other, err := repo.GetByKey(ctx, "print-1", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other)

	// the unique index refuses a second reservation of the same key
	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{
		Key: "print-1", UserID: user, Endpoint: "x", ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.False(t, ok)

	// a finished key survives Release
	require.NoError(t, repo.Release(ctx, "print-1", user))
	got, err = repo.GetByKey(ctx, "print-1", user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"success":true}`, got.ResponseBody)

	require.NoError(t, repo.DeleteExpired(ctx))
	old, err := repo.GetByKey(ctx, "old", user)
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestIdempotencyRepository_ReleasePending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	job := &entity.IdempotencyKey{Key: "print-2", UserID: user, Endpoint: "x", ExpiresAt: time.Now().Add(time.Hour)}
	ok, err := repo.Reserve(ctx, job)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Release(ctx, "print-2", user))
	got, err := repo.GetByKey(ctx, "print-2", user)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "print-2", UserID: user, Endpoint: "x", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, ok)
}
