package service

import (
	"context"
	"testing"

	"github.com/mekstation/vault-sync-service/internal/dto"
	"github.com/mekstation/vault-sync-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordConflict(t *testing.T, svc ConflictService, itemID string) *dto.SyncConflictDTO {
	t.Helper()

	conflict, err := svc.RecordConflict(context.Background(), &dto.ConflictRecordRequest{
		ContentType:   "unit",
		ItemID:        itemID,
		ItemName:      "Atlas AS7-D",
		LocalVersion:  1,
		LocalHash:     "hash-local",
		RemoteVersion: 2,
		RemoteHash:    "hash-remote",
		RemotePeerID:  "peer-a",
	})
	require.NoError(t, err)
	require.NotNil(t, conflict)
	return conflict
}

func TestRecordConflict_StartsPending(t *testing.T) {
	svc := newTestConflictService(t)
	ctx := context.Background()

	conflict := recordConflict(t, svc, "unit-1")
	assert.Equal(t, "pending", conflict.Resolution)
	assert.Equal(t, "Atlas AS7-D", conflict.ItemName)
	assert.Equal(t, int64(1), conflict.LocalVersion)
	assert.Equal(t, int64(2), conflict.RemoteVersion)

	pending, err := svc.GetPendingConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, conflict.ID, pending[0].ID)
}

func TestRecordConflict_InvalidContentType(t *testing.T) {
	svc := newTestConflictService(t)

	_, err := svc.RecordConflict(context.Background(), &dto.ConflictRecordRequest{
		ContentType:   "starship",
		ItemID:        "unit-1",
		LocalVersion:  1,
		RemoteVersion: 2,
		RemotePeerID:  "peer-a",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorInvalidContentType)
}

func TestResolveConflict(t *testing.T) {
	svc := newTestConflictService(t)
	ctx := context.Background()

	conflict := recordConflict(t, svc, "unit-1")

	ok, err := svc.ResolveConflict(ctx, conflict.ID, "remote")
	require.NoError(t, err)
	assert.True(t, ok)

	// 处理后不再出现在待处理列表
	pending, err := svc.GetPendingConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResolveConflict_Invalid(t *testing.T) {
	svc := newTestConflictService(t)
	ctx := context.Background()

	conflict := recordConflict(t, svc, "unit-1")

	// pending 不是合法终态
	ok, err := svc.ResolveConflict(ctx, conflict.ID, "pending")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorInvalidResolution)
	assert.False(t, ok)

	ok, err = svc.ResolveConflict(ctx, conflict.ID, "coin-flip")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorInvalidResolution)
	assert.False(t, ok)

	// 不存在的冲突返回 false
	ok, err = svc.ResolveConflict(ctx, 99999, "local")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorConflictNotFound)
	assert.False(t, ok)
}

func TestResolveConflict_ReResolveOverwrites(t *testing.T) {
	svc := newTestConflictService(t)
	ctx := context.Background()

	conflict := recordConflict(t, svc, "unit-1")

	ok, err := svc.ResolveConflict(ctx, conflict.ID, "local")
	require.NoError(t, err)
	assert.True(t, ok)

	// 二次处理静默覆盖并返回 true
	ok, err = svc.ResolveConflict(ctx, conflict.ID, "forked")
	require.NoError(t, err)
	assert.True(t, ok)
}
