package dao

import (
	"context"
	"testing"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordTestChange(t *testing.T, repo domain.ChangeLogRepository, itemID, data, sourceID string) *domain.ChangeLogEntry {
	t.Helper()

	entry, err := repo.Record(context.Background(), &domain.ChangeLogEntry{
		ChangeType:  domain.ChangeTypeUpdate,
		ContentType: domain.ContentTypeUnit,
		ItemID:      itemID,
		ContentHash: util.EncodeSHA256(data),
		Data:        data,
		Synced:      sourceID != "",
		SourceID:    sourceID,
	})
	require.NoError(t, err)
	return entry
}

func TestChangeLogRepository_GlobalMonotonicVersions(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)

	// 交错写入不同条目，全局版本号仍然单调递增
	e1 := recordTestChange(t, repo, "unit-1", `{"v":1}`, "")
	e2 := recordTestChange(t, repo, "pilot-9", `{"p":1}`, "")
	e3 := recordTestChange(t, repo, "unit-1", `{"v":2}`, "")

	assert.Equal(t, int64(1), e1.Version)
	assert.Equal(t, int64(2), e2.Version)
	assert.Equal(t, int64(3), e3.Version)

	current, err := repo.GetCurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), current)
}

func TestChangeLogRepository_GetCurrentVersionEmptyLog(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)

	current, err := repo.GetCurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), current)
}

func TestChangeLogRepository_GetChangesSince(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		recordTestChange(t, repo, "unit-1", `{"v":1}`, "")
	}

	list, err := repo.GetChangesSince(ctx, 2, 100)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// 绝不返回 version <= cursor 的条目
	for _, entry := range list {
		assert.Greater(t, entry.Version, int64(2))
	}
	assert.Equal(t, int64(3), list[0].Version)

	limited, err := repo.GetChangesSince(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, int64(1), limited[0].Version)
	assert.Equal(t, int64(2), limited[1].Version)
}

func TestChangeLogRepository_UnsyncedAndMarkSynced(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)
	ctx := context.Background()

	local1 := recordTestChange(t, repo, "unit-1", `{"v":1}`, "")
	remote := recordTestChange(t, repo, "unit-2", `{"v":1}`, "peer-a")
	local2 := recordTestChange(t, repo, "unit-1", `{"v":2}`, "")

	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 2)
	// 远端来源的条目生来就是已同步
	assert.Equal(t, local1.ID, unsynced[0].ID)
	assert.Equal(t, local2.ID, unsynced[1].ID)
	assert.True(t, remote.Synced)

	// 空列表不产生写入
	updated, err := repo.MarkSynced(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	updated, err = repo.MarkSynced(ctx, []int64{local1.ID, local2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unsynced, err = repo.GetUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsynced)
}

func TestChangeLogRepository_ItemQueries(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)
	ctx := context.Background()

	recordTestChange(t, repo, "unit-1", `{"v":1}`, "")
	recordTestChange(t, repo, "unit-2", `{"v":1}`, "")
	recordTestChange(t, repo, "unit-1", `{"v":2}`, "")

	latest, err := repo.GetLatestForItem(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, `{"v":2}`, latest.Data)

	history, err := repo.GetHistoryForItem(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Less(t, history[0].Version, history[1].Version)

	missing, err := repo.GetLatestForItem(ctx, "ghost", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChangeLogRepository_PruneOldChanges(t *testing.T) {
	d := newTestDao(t)
	repo := NewChangeLogRepository(d)
	ctx := context.Background()

	var synced []int64
	for i := 0; i < 4; i++ {
		entry := recordTestChange(t, repo, "unit-1", `{"v":1}`, "")
		synced = append(synced, entry.ID)
	}
	// 两条未同步的本地变更
	recordTestChange(t, repo, "unit-1", `{"v":2}`, "")
	recordTestChange(t, repo, "unit-1", `{"v":3}`, "")

	_, err := repo.MarkSynced(ctx, synced)
	require.NoError(t, err)

	// 总数 6，保留 3：最多删 3 条，且只删已同步的
	deleted, err := repo.PruneOldChanges(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 2)

	// 保留数大于总数时不删除
	deleted, err = repo.PruneOldChanges(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// 未同步条目即使超出保留数也不会被删除
	deleted, err = repo.PruneOldChanges(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	unsynced, err = repo.GetUnsynced(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 2)
}
