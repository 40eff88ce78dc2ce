// Package model 定义数据模型
package model

import (
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

const TableNameVersionSnapshot = "version_snapshot"

// VersionSnapshot mapped from table <version_snapshot>
// (content_type, item_id, version) 三元组唯一
type VersionSnapshot struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	ContentType string     `gorm:"column:content_type;not null;uniqueIndex:uk_item_version,priority:1" json:"contentType" form:"contentType"`
	ItemID      string     `gorm:"column:item_id;not null;uniqueIndex:uk_item_version,priority:2" json:"itemId" form:"itemId"`
	Version     int64      `gorm:"column:version;not null;uniqueIndex:uk_item_version,priority:3" json:"version" form:"version"`
	ContentHash string     `gorm:"column:content_hash;not null" json:"contentHash" form:"contentHash"`
	Content     string     `gorm:"column:content;not null" json:"content" form:"content"`
	SizeBytes   int64      `gorm:"column:size_bytes;not null;default:0" json:"sizeBytes" form:"sizeBytes"`
	CreatedBy   string     `gorm:"column:created_by" json:"createdBy" form:"createdBy"`
	Message     string     `gorm:"column:message" json:"message" form:"message"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName VersionSnapshot's table name
func (*VersionSnapshot) TableName() string {
	return TableNameVersionSnapshot
}

// ToDomain 转换为领域模型
func (m *VersionSnapshot) ToDomain() *domain.VersionSnapshot {
	return &domain.VersionSnapshot{
		ID:          m.ID,
		ContentType: domain.ContentType(m.ContentType),
		ItemID:      m.ItemID,
		Version:     m.Version,
		ContentHash: m.ContentHash,
		Content:     m.Content,
		SizeBytes:   m.SizeBytes,
		CreatedBy:   m.CreatedBy,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt.Time(),
	}
}

// VersionSnapshotFromDomain 从领域模型转换
func VersionSnapshotFromDomain(d *domain.VersionSnapshot) *VersionSnapshot {
	return &VersionSnapshot{
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
