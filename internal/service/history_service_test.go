package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/dto"
	"github.com/mekstation/vault-sync-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func saveVersion(t *testing.T, svc VersionHistoryService, itemID, content string) *dto.VersionSnapshotDTO {
	t.Helper()

	saved, err := svc.SaveVersion(context.Background(), &dto.VersionSaveRequest{
		ContentType: "unit",
		ItemID:      itemID,
		Content:     content,
		CreatedBy:   "local",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	return saved
}

func TestSaveVersion_InvalidContentType(t *testing.T) {
	svc := newTestHistoryService(t, nil)

	_, err := svc.SaveVersion(context.Background(), &dto.VersionSaveRequest{
		ContentType: "starship",
		ItemID:      "unit-1",
		Content:     `{"v":1}`,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorInvalidContentType)
}

func TestSaveVersion_SkipIfUnchanged(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	first := saveVersion(t, svc, "unit-1", `{"v":1}`)
	assert.Equal(t, int64(1), first.Version)

	// 内容未变化，不产生新版本，返回 nil
	skipped, err := svc.SaveVersion(ctx, &dto.VersionSaveRequest{
		ContentType:     "unit",
		ItemID:          "unit-1",
		Content:         `{"v":1}`,
		SkipIfUnchanged: true,
	})
	require.NoError(t, err)
	assert.Nil(t, skipped)

	history, err := svc.GetHistory(ctx, "unit-1", "unit", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// 内容变化则版本号恰好加一
	second, err := svc.SaveVersion(ctx, &dto.VersionSaveRequest{
		ContentType:     "unit",
		ItemID:          "unit-1",
		Content:         `{"v":2}`,
		SkipIfUnchanged: true,
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, int64(2), second.Version)
}

func TestGetHistory_NewestFirst(t *testing.T) {
	svc := newTestHistoryService(t, nil)

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)
	saveVersion(t, svc, "unit-1", `{"v":3}`)

	history, err := svc.GetHistory(context.Background(), "unit-1", "unit", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, int64(3), history[0].Version)
	assert.Equal(t, int64(2), history[1].Version)
	assert.Equal(t, int64(1), history[2].Version)
}

func TestGetHistorySummary(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	// 无历史的条目全零
	empty, err := svc.GetHistorySummary(ctx, "ghost", "unit")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalVersions)
	assert.Equal(t, int64(0), empty.CurrentVersion)
	assert.Equal(t, int64(0), empty.TotalSizeBytes)

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)
	saveVersion(t, svc, "unit-1", `{"v":3}`)

	summary, err := svc.GetHistorySummary(ctx, "unit-1", "unit")
	require.NoError(t, err)
	assert.Equal(t, "unit-1", summary.ItemID)
	assert.Equal(t, int64(3), summary.CurrentVersion)
	assert.Equal(t, int64(3), summary.TotalVersions)
	assert.Equal(t, int64(3), summary.NewestVersion)
	assert.Equal(t, int64(1), summary.OldestVersion)
	assert.Equal(t, int64(3*len(`{"v":1}`)), summary.TotalSizeBytes)
}

func TestDiffVersions_SpecExample(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)
	saveVersion(t, svc, "unit-1", `{"v":3}`)

	result, err := svc.DiffVersions(ctx, "unit-1", "unit", 1, 3)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.FromVersion)
	assert.Equal(t, int64(3), result.ToVersion)
	assert.Equal(t, []string{"v"}, result.ChangedFields)
	require.Contains(t, result.Modifications, "v")
	assert.Equal(t, float64(1), result.Modifications["v"].From)
	assert.Equal(t, float64(3), result.Modifications["v"].To)

	// 版本与自身比较无差异
	self, err := svc.DiffVersions(ctx, "unit-1", "unit", 2, 2)
	require.NoError(t, err)
	require.NotNil(t, self)
	assert.Empty(t, self.ChangedFields)

	// 任一版本缺失返回 nil
	missing, err := svc.DiffVersions(ctx, "unit-1", "unit", 1, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDiffWithLatest(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":9}`)

	result, err := svc.DiffWithLatest(ctx, "unit-1", "unit", 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(2), result.ToVersion)
	assert.Equal(t, []string{"v"}, result.ChangedFields)

	// 条目没有任何版本时返回 nil
	empty, err := svc.DiffWithLatest(ctx, "ghost", "unit", 1)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRollbackToVersion(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)
	saveVersion(t, svc, "unit-1", `{"v":3}`)

	result, err := svc.RollbackToVersion(ctx, "unit-1", "unit", 1, "local")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.RestoredVersion)

	// 回滚产生 max+1 的新版本，内容等于目标版本
	assert.Equal(t, int64(4), result.RestoredVersion.Version)
	assert.Equal(t, `{"v":1}`, result.RestoredVersion.Content)
	assert.Equal(t, "Rollback to version 1", result.RestoredVersion.Message)

	// 原目标版本保持原样可检索
	target, err := svc.GetVersion(ctx, "unit-1", "unit", 1)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, `{"v":1}`, target.Content)

	latest, err := svc.GetHistory(ctx, "unit-1", "unit", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, int64(4), latest[0].Version)
}

func TestRollbackToVersion_NotFound(t *testing.T) {
	svc := newTestHistoryService(t, nil)

	saveVersion(t, svc, "unit-1", `{"v":1}`)

	result, err := svc.RollbackToVersion(context.Background(), "unit-1", "unit", 99, "local")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorVersionNotFound)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "NOT_FOUND", result.Error)
}

func TestRollbackToVersion_ApplyFailedPersistsNothing(t *testing.T) {
	svc := newTestHistoryService(t, func(ctx context.Context, itemID string, contentType domain.ContentType, content string) bool {
		return false
	})
	ctx := context.Background()

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)

	result, err := svc.RollbackToVersion(ctx, "unit-1", "unit", 1, "local")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorApplyContent)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "APPLY_FAILED", result.Error)

	// 写回被拒绝时不落任何新版本
	history, err := svc.GetHistory(ctx, "unit-1", "unit", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRollbackToVersion_ApplyReceivesTargetContent(t *testing.T) {
	var appliedContent string
	svc := newTestHistoryService(t, func(ctx context.Context, itemID string, contentType domain.ContentType, content string) bool {
		appliedContent = content
		return true
	})
	ctx := context.Background()

	saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)

	result, err := svc.RollbackToVersion(ctx, "unit-1", "unit", 1, "local")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, `{"v":1}`, appliedContent)
}

func TestRollbackToVersionByID(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	first := saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)

	result, err := svc.RollbackToVersionByID(ctx, first.ID, "local")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, int64(3), result.RestoredVersion.Version)
	assert.Equal(t, `{"v":1}`, result.RestoredVersion.Content)

	missing, err := svc.RollbackToVersionByID(ctx, 99999, "local")
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorVersionNotFound)
	assert.False(t, missing.Success)
}

func TestPruneVersions(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		saveVersion(t, svc, "unit-1", fmt.Sprintf(`{"v":%d}`, i))
	}

	deleted, err := svc.PruneVersions(ctx, "unit-1", "unit", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	history, err := svc.GetHistory(ctx, "unit-1", "unit", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(5), history[0].Version)
	assert.Equal(t, int64(4), history[1].Version)
}

func TestDeleteVersionAndDeleteAll(t *testing.T) {
	svc := newTestHistoryService(t, nil)
	ctx := context.Background()

	first := saveVersion(t, svc, "unit-1", `{"v":1}`)
	saveVersion(t, svc, "unit-1", `{"v":2}`)

	ok, err := svc.DeleteVersion(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 不存在时返回 false 而非报错
	ok, err = svc.DeleteVersion(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := svc.DeleteAllVersions(ctx, "unit-1", "unit")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

// 任意次连续保存后，版本号从 count 严格递减到 1，无空洞
func TestProperty_VersionSequenceGapFree(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("versions decrease from count to 1 without gaps", prop.ForAll(
		func(saves int) bool {
			repos := newTestRepos(t)
			svc := NewVersionHistoryService(repos.version, nil, zap.NewNop(), nil)
			ctx := context.Background()

			for i := 0; i < saves; i++ {
				_, err := svc.SaveVersion(ctx, &dto.VersionSaveRequest{
					ContentType: "unit",
					ItemID:      "unit-1",
					Content:     fmt.Sprintf(`{"v":%d}`, i),
				})
				if err != nil {
					return false
				}
			}

			history, err := svc.GetHistory(ctx, "unit-1", "unit", saves+1)
			if err != nil || len(history) != saves {
				return false
			}
			for i, snapshot := range history {
				if snapshot.Version != int64(saves-i) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 15),
	))

	properties.TestingRun(t)
}
