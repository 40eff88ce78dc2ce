package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveTestVersion(t *testing.T, repo domain.VersionRepository, itemID, content string) *domain.VersionSnapshot {
	t.Helper()

	snapshot, err := repo.Save(context.Background(), &domain.VersionSnapshot{
		ContentType: domain.ContentTypeUnit,
		ItemID:      itemID,
		Content:     content,
		ContentHash: util.EncodeSHA256(content),
		SizeBytes:   int64(len(content)),
		CreatedBy:   "local",
	})
	require.NoError(t, err)
	return snapshot
}

func TestVersionRepository_SaveAssignsIncreasingVersions(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)

	v1 := saveTestVersion(t, repo, "unit-1", `{"v":1}`)
	v2 := saveTestVersion(t, repo, "unit-1", `{"v":2}`)
	v3 := saveTestVersion(t, repo, "unit-1", `{"v":3}`)

	assert.Equal(t, int64(1), v1.Version)
	assert.Equal(t, int64(2), v2.Version)
	assert.Equal(t, int64(3), v3.Version)

	// 不同条目有独立的版本序列
	other := saveTestVersion(t, repo, "unit-2", `{"v":1}`)
	assert.Equal(t, int64(1), other.Version)
}

func TestVersionRepository_GetVersionsNewestFirst(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		saveTestVersion(t, repo, "unit-1", fmt.Sprintf(`{"v":%d}`, i))
	}

	list, err := repo.GetVersions(ctx, "unit-1", domain.ContentTypeUnit, 50)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// 版本号从 count 严格递减到 1，无空洞
	for i, snapshot := range list {
		assert.Equal(t, int64(5-i), snapshot.Version)
	}

	limited, err := repo.GetVersions(ctx, "unit-1", domain.ContentTypeUnit, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, int64(5), limited[0].Version)
	assert.Equal(t, int64(4), limited[1].Version)
}

func TestVersionRepository_PointLookups(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	saved := saveTestVersion(t, repo, "unit-1", `{"v":1}`)
	saveTestVersion(t, repo, "unit-1", `{"v":2}`)

	got, err := repo.GetVersion(ctx, "unit-1", domain.ContentTypeUnit, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"v":1}`, got.Content)

	latest, err := repo.GetLatestVersion(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(2), latest.Version)

	byID, err := repo.GetVersionByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, saved.Version, byID.Version)

	// 点查不存在的版本返回 nil 而非报错
	missing, err := repo.GetVersion(ctx, "unit-1", domain.ContentTypeUnit, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	missingLatest, err := repo.GetLatestVersion(ctx, "ghost", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Nil(t, missingLatest)
}

func TestVersionRepository_GetVersionRange(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		saveTestVersion(t, repo, "unit-1", fmt.Sprintf(`{"v":%d}`, i))
	}

	list, err := repo.GetVersionRange(ctx, "unit-1", domain.ContentTypeUnit, 2, 4)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// 闭区间，升序
	assert.Equal(t, int64(2), list[0].Version)
	assert.Equal(t, int64(4), list[2].Version)
}

func TestVersionRepository_Aggregates(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	count, err := repo.GetVersionCount(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	used, err := repo.GetStorageUsed(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), used)

	saveTestVersion(t, repo, "unit-1", `{"v":1}`)
	saveTestVersion(t, repo, "unit-1", `{"v":22}`)

	count, err = repo.GetVersionCount(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	used, err = repo.GetStorageUsed(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Equal(t, int64(len(`{"v":1}`)+len(`{"v":22}`)), used)
}

func TestVersionRepository_Delete(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	saved := saveTestVersion(t, repo, "unit-1", `{"v":1}`)
	saveTestVersion(t, repo, "unit-1", `{"v":2}`)

	ok, err := repo.DeleteVersion(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 重复删除返回 false 而非报错
	ok, err = repo.DeleteVersion(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.DeleteAllVersions(ctx, "unit-1", domain.ContentTypeUnit)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestVersionRepository_PruneOldVersions(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		saveTestVersion(t, repo, "unit-1", fmt.Sprintf(`{"v":%d}`, i))
	}

	deleted, err := repo.PruneOldVersions(ctx, "unit-1", domain.ContentTypeUnit, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	list, err := repo.GetVersions(ctx, "unit-1", domain.ContentTypeUnit, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// 留下的是最新的两个版本，版本号不重编
	assert.Equal(t, int64(5), list[0].Version)
	assert.Equal(t, int64(4), list[1].Version)

	// 版本数不足 keepCount 时不删除
	deleted, err = repo.PruneOldVersions(ctx, "unit-1", domain.ContentTypeUnit, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestVersionRepository_PruneByDate(t *testing.T) {
	d := newTestDao(t)
	repo := NewVersionRepository(d)
	ctx := context.Background()

	saveTestVersion(t, repo, "unit-1", `{"v":1}`)
	saveTestVersion(t, repo, "pilot-1", `{"p":1}`)

	// 全部行都晚于一小时前，不应删除
	deleted, err := repo.PruneByDate(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// 全部行都早于一小时后，跨条目删除
	deleted, err = repo.PruneByDate(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
