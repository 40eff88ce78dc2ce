package dto

import (
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

// ChangeLogEntryDTO Change log entry data transfer object
// ChangeLogEntryDTO 变更日志条目数据传输对象
type ChangeLogEntryDTO struct {
	ID          int64      `json:"id"`
	Version     int64      `json:"version"`
	ChangeType  string     `json:"changeType"`
	ContentType string     `json:"contentType"`
	ItemID      string     `json:"itemId"`
	ContentHash string     `json:"contentHash,omitempty"`
	Data        string     `json:"data,omitempty"`
	Synced      bool       `json:"synced"`
	SourceID    string     `json:"sourceId,omitempty"`
	CreatedAt   timex.Time `json:"createdAt"`
}

// ChangeLogEntryFromDomain 从领域模型转换
func ChangeLogEntryFromDomain(d *domain.ChangeLogEntry) *ChangeLogEntryDTO {
	if d == nil {
		return nil
	}
	return &ChangeLogEntryDTO{
		ID:          d.ID,
		Version:     d.Version,
		ChangeType:  string(d.ChangeType),
		ContentType: string(d.ContentType),
		ItemID:      d.ItemID,
		ContentHash: d.ContentHash,
		Data:        d.Data,
		Synced:      d.Synced,
		SourceID:    d.SourceID,
		CreatedAt:   timex.Time(d.CreatedAt),
	}
}

// ChangeLogEntryListFromDomain 批量转换
func ChangeLogEntryListFromDomain(list []*domain.ChangeLogEntry) []*ChangeLogEntryDTO {
	result := make([]*ChangeLogEntryDTO, 0, len(list))
	for _, d := range list {
		result = append(result, ChangeLogEntryFromDomain(d))
	}
	return result
}

// ---------------- Request ----------------

// ChangeRecordRequest 记录变更的请求参数
// SourceID 非空表示该变更由远端 peer 产生
type ChangeRecordRequest struct {
	ChangeType  string `json:"changeType" form:"changeType" binding:"required"`
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
	ContentHash string `json:"contentHash" form:"contentHash"`
	Data        string `json:"data" form:"data"`
	SourceID    string `json:"sourceId" form:"sourceId"`
}

// ChangesSinceRequest 按游标增量拉取变更的请求参数
type ChangesSinceRequest struct {
	Cursor int64 `json:"cursor" form:"cursor"`
	Limit  int   `json:"limit" form:"limit"`
}

// ChangeItemHistoryRequest 获取单条目变更历史的请求参数
type ChangeItemHistoryRequest struct {
	ContentType string `json:"contentType" form:"contentType" binding:"required"`
	ItemID      string `json:"itemId" form:"itemId" binding:"required"`
}

// MarkSyncedRequest 批量确认同步的请求参数
type MarkSyncedRequest struct {
	IDs []int64 `json:"ids" form:"ids"`
}

// ChangePruneRequest 清理已同步变更的请求参数
type ChangePruneRequest struct {
	KeepCount int `json:"keepCount" form:"keepCount"`
}
