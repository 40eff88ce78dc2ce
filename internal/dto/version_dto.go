// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/diff"
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

// VersionSnapshotDTO Version snapshot data transfer object
// VersionSnapshotDTO 版本快照数据传输对象
type VersionSnapshotDTO struct {
	ID          int64      `json:"id"`
	ContentType string     `json:"contentType"`
	ItemID      string     `json:"itemId"`
	Version     int64      `json:"version"`
	ContentHash string     `json:"contentHash"`
	Content     string     `json:"content"`
	SizeBytes   int64      `json:"sizeBytes"`
	CreatedBy   string     `json:"createdBy"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   timex.Time `json:"createdAt"`
}

// VersionSnapshotFromDomain 从领域模型转换
func VersionSnapshotFromDomain(d *domain.VersionSnapshot) *VersionSnapshotDTO {
	if d == nil {
		return nil
	}
	return &VersionSnapshotDTO{
		ID:          d.ID,
		ContentType: string(d.ContentType),
		ItemID:      d.ItemID,
		Version:     d.Version,
		ContentHash: d.ContentHash,
		Content:     d.Content,
		SizeBytes:   d.SizeBytes,
		CreatedBy:   d.CreatedBy,
		Message:     d.Message,
		CreatedAt:   timex.Time(d.CreatedAt),
	}
}

// VersionSnapshotListFromDomain 批量转换
func VersionSnapshotListFromDomain(list []*domain.VersionSnapshot) []*VersionSnapshotDTO {
	result := make([]*VersionSnapshotDTO, 0, len(list))
	for _, d := range list {
		result = append(result, VersionSnapshotFromDomain(d))
	}
	return result
}

// HistorySummaryDTO History summary for one item
// HistorySummaryDTO 条目历史汇总
type HistorySummaryDTO struct {
	ItemID         string `json:"itemId"`
	ContentType    string `json:"contentType"`
	CurrentVersion int64  `json:"currentVersion"`
	TotalVersions  int64  `json:"totalVersions"`
	TotalSizeBytes int64  `json:"totalSizeBytes"`
	OldestVersion  int64  `json:"oldestVersion"`
	NewestVersion  int64  `json:"newestVersion"`
}

// HistorySummaryFromDomain 从领域模型转换
func HistorySummaryFromDomain(d *domain.HistorySummary) *HistorySummaryDTO {
	if d == nil {
		return nil
	}
	return &HistorySummaryDTO{
		ItemID:         d.ItemID,
		ContentType:    string(d.ContentType),
		CurrentVersion: d.CurrentVersion,
		TotalVersions:  d.TotalVersions,
		TotalSizeBytes: d.TotalSizeBytes,
		OldestVersion:  d.OldestVersion,
		NewestVersion:  d.NewestVersion,
	}
}

// VersionDiffDTO Field level diff between two versions
// VersionDiffDTO 两个版本之间的字段级差异
type VersionDiffDTO struct {
	FromVersion   int64                       `json:"fromVersion"`
	ToVersion     int64                       `json:"toVersion"`
	ChangedFields []string                    `json:"changedFields"`
	Additions     map[string]interface{}      `json:"additions"`
	Deletions     map[string]interface{}      `json:"deletions"`
	Modifications map[string]diff.FieldChange `json:"modifications"`
	// Patch 文本补丁，用于历史详情展示
	Patch string `json:"patch,omitempty"`
}

// RollbackResultDTO Rollback operation result
// RollbackResultDTO 回滚操作结果
type RollbackResultDTO struct {
	Success         bool                `json:"success"`
	RestoredVersion *VersionSnapshotDTO `json:"restoredVersion,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// ---------------- Request ----------------

// VersionSaveRequest 保存新版本的请求参数
type VersionSaveRequest struct {
	ContentType     string `json:"contentType" form:"contentType" binding:"required"`
	ItemID          string `json:"itemId" form:"itemId" binding:"required"`
	Content         string `json:"content" form:"content" binding:"required"`
	CreatedBy       string `json:"createdBy" form:"createdBy"`
	Message         string `json:"message" form:"message"`
	SkipIfUnchanged bool   `json:"skipIfUnchanged" form:"skipIfUnchanged"`
}

// VersionHistoryRequest 获取版本历史的请求参数
type VersionHistoryRequest struct {
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
	Limit       int    `json:"limit" form:"limit"`
}

// VersionDiffRequest 计算版本差异的请求参数
// ToVersion 为 0 时与当前最新版本比较
type VersionDiffRequest struct {
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
	FromVersion int64  `json:"fromVersion" form:"fromVersion" binding:"required"`
	ToVersion   int64  `json:"toVersion" form:"toVersion"`
}

// VersionRollbackRequest 回滚请求参数
// 提供 VersionID 时按快照 ID 回滚，否则按 (itemId, contentType, targetVersion)
type VersionRollbackRequest struct {
	ContentType   string `json:"contentType" form:"contentType"`
	ItemID        string `json:"itemId" form:"itemId"`
	TargetVersion int64  `json:"targetVersion" form:"targetVersion"`
	VersionID     int64  `json:"versionId" form:"versionId"`
	Actor         string `json:"actor" form:"actor"`
}

// VersionPruneRequest 清理版本的请求参数
type VersionPruneRequest struct {
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
	KeepCount   int    `json:"keepCount" form:"keepCount" binding:"required"`
}

// VersionDeleteAllRequest 删除条目全部版本的请求参数
type VersionDeleteAllRequest struct {
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
}
