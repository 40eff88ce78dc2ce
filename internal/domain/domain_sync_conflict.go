package domain

import "time"

// SyncConflict 同步冲突领域模型
// Resolution 从 pending 一次性迁移到终态，本层不做二次处理校验
type SyncConflict struct {
	ID            int64
	ContentType   ContentType
	ItemID        string
	ItemName      string
	LocalVersion  int64
	LocalHash     string
	RemoteVersion int64
	RemoteHash    string
	RemotePeerID  string
	Resolution    Resolution
	DetectedAt    time.Time
	ResolvedAt    time.Time
}
