package model

import (
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

const TableNameSyncConflict = "sync_conflict"

// SyncConflict mapped from table <sync_conflict>
type SyncConflict struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	ContentType   string     `gorm:"column:content_type;not null;index:idx_conflict_item,priority:1" json:"contentType" form:"contentType"`
	ItemID        string     `gorm:"column:item_id;not null;index:idx_conflict_item,priority:2" json:"itemId" form:"itemId"`
	ItemName      string     `gorm:"column:item_name" json:"itemName" form:"itemName"`
	LocalVersion  int64      `gorm:"column:local_version;not null" json:"localVersion" form:"localVersion"`
	LocalHash     string     `gorm:"column:local_hash" json:"localHash" form:"localHash"`
	RemoteVersion int64      `gorm:"column:remote_version;not null" json:"remoteVersion" form:"remoteVersion"`
	RemoteHash    string     `gorm:"column:remote_hash" json:"remoteHash" form:"remoteHash"`
	RemotePeerID  string     `gorm:"column:remote_peer_id" json:"remotePeerId" form:"remotePeerId"`
	Resolution    string     `gorm:"column:resolution;not null;default:pending;index:idx_conflict_resolution" json:"resolution" form:"resolution"`
	DetectedAt    timex.Time `gorm:"column:detected_at;type:datetime;autoCreateTime:false" json:"detectedAt" form:"detectedAt"`
	ResolvedAt    timex.Time `gorm:"column:resolved_at;type:datetime;default:NULL;autoCreateTime:false" json:"resolvedAt" form:"resolvedAt"`
}

// TableName SyncConflict's table name
func (*SyncConflict) TableName() string {
	return TableNameSyncConflict
}

// ToDomain 转换为领域模型
func (m *SyncConflict) ToDomain() *domain.SyncConflict {
	return &domain.SyncConflict{
		ID:            m.ID,
		ContentType:   domain.ContentType(m.ContentType),
		ItemID:        m.ItemID,
		ItemName:      m.ItemName,
		LocalVersion:  m.LocalVersion,
		LocalHash:     m.LocalHash,
		RemoteVersion: m.RemoteVersion,
		RemoteHash:    m.RemoteHash,
		RemotePeerID:  m.RemotePeerID,
		Resolution:    domain.Resolution(m.Resolution),
		DetectedAt:    m.DetectedAt.Time(),
		ResolvedAt:    m.ResolvedAt.Time(),
	}
}

// SyncConflictFromDomain 从领域模型转换
func SyncConflictFromDomain(d *domain.SyncConflict) *SyncConflict {
	return &SyncConflict{
		ID:            d.ID,
		ContentType:   string(d.ContentType),
		ItemID:        d.ItemID,
		ItemName:      d.ItemName,
		LocalVersion:  d.LocalVersion,
		LocalHash:     d.LocalHash,
		RemoteVersion: d.RemoteVersion,
		RemoteHash:    d.RemoteHash,
		RemotePeerID:  d.RemotePeerID,
		Resolution:    string(d.Resolution),
		DetectedAt:    timex.Time(d.DetectedAt),
		ResolvedAt:    timex.Time(d.ResolvedAt),
	}
}
