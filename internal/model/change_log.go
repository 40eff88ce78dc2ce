package model

import (
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

const TableNameChangeLog = "change_log"

// ChangeLog mapped from table <change_log>
// version 是跨条目的全局单调计数器，作为同步游标使用
type ChangeLog struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Version     int64      `gorm:"column:version;not null;uniqueIndex:uk_change_version" json:"version" form:"version"`
	ChangeType  string     `gorm:"column:change_type;not null" json:"changeType" form:"changeType"`
	ContentType string     `gorm:"column:content_type;not null;index:idx_change_item,priority:1" json:"contentType" form:"contentType"`
	ItemID      string     `gorm:"column:item_id;not null;index:idx_change_item,priority:2" json:"itemId" form:"itemId"`
	ContentHash string     `gorm:"column:content_hash" json:"contentHash" form:"contentHash"`
	Data        string     `gorm:"column:data" json:"data" form:"data"`
	Synced      bool       `gorm:"column:synced;not null;default:false;index:idx_change_synced" json:"synced" form:"synced"`
	SourceID    string     `gorm:"column:source_id" json:"sourceId" form:"sourceId"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName ChangeLog's table name
func (*ChangeLog) TableName() string {
	return TableNameChangeLog
}

// ToDomain 转换为领域模型
func (m *ChangeLog) ToDomain() *domain.ChangeLogEntry {
	return &domain.ChangeLogEntry{
		ID:          m.ID,
		Version:     m.Version,
		ChangeType:  domain.ChangeType(m.ChangeType),
		ContentType: domain.ContentType(m.ContentType),
		ItemID:      m.ItemID,
		ContentHash: m.ContentHash,
		Data:        m.Data,
		Synced:      m.Synced,
		SourceID:    m.SourceID,
		CreatedAt:   m.CreatedAt.Time(),
	}
}

// ChangeLogFromDomain 从领域模型转换
func ChangeLogFromDomain(d *domain.ChangeLogEntry) *ChangeLog {
	return &ChangeLog{
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
