package dao

import (
	"context"
	"testing"

	"github.com/mekstation/vault-sync-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordTestConflict(t *testing.T, repo domain.ConflictRepository, itemID string) *domain.SyncConflict {
	t.Helper()

	conflict, err := repo.Record(context.Background(), &domain.SyncConflict{
		ContentType:   domain.ContentTypeUnit,
		ItemID:        itemID,
		ItemName:      "Atlas AS7-D",
		LocalVersion:  1,
		LocalHash:     "hash-local",
		RemoteVersion: 2,
		RemoteHash:    "hash-remote",
		RemotePeerID:  "peer-a",
	})
	require.NoError(t, err)
	return conflict
}

func TestConflictRepository_RecordStartsPending(t *testing.T) {
	d := newTestDao(t)
	repo := NewConflictRepository(d)
	ctx := context.Background()

	conflict := recordTestConflict(t, repo, "unit-1")
	assert.Equal(t, domain.ResolutionPending, conflict.Resolution)
	assert.False(t, conflict.DetectedAt.IsZero())

	pending, err := repo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, conflict.ID, pending[0].ID)
}

func TestConflictRepository_ResolveRemovesFromPending(t *testing.T) {
	d := newTestDao(t)
	repo := NewConflictRepository(d)
	ctx := context.Background()

	conflict := recordTestConflict(t, repo, "unit-1")
	recordTestConflict(t, repo, "unit-2")

	ok, err := repo.Resolve(ctx, conflict.ID, domain.ResolutionRemote)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := repo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "unit-2", pending[0].ItemID)

	resolved, err := repo.GetByID(ctx, conflict.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, domain.ResolutionRemote, resolved.Resolution)
	assert.False(t, resolved.ResolvedAt.IsZero())
}

func TestConflictRepository_ResolveMissingReturnsFalse(t *testing.T) {
	d := newTestDao(t)
	repo := NewConflictRepository(d)

	ok, err := repo.Resolve(context.Background(), 12345, domain.ResolutionLocal)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConflictRepository_ReResolveOverwritesSilently(t *testing.T) {
	d := newTestDao(t)
	repo := NewConflictRepository(d)
	ctx := context.Background()

	conflict := recordTestConflict(t, repo, "unit-1")

	ok, err := repo.Resolve(ctx, conflict.ID, domain.ResolutionLocal)
	require.NoError(t, err)
	assert.True(t, ok)

	// 二次处理静默覆盖
	ok, err = repo.Resolve(ctx, conflict.ID, domain.ResolutionMerged)
	require.NoError(t, err)
	assert.True(t, ok)

	resolved, err := repo.GetByID(ctx, conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionMerged, resolved.Resolution)
}
