package dto

import (
	"github.com/mekstation/vault-sync-service/pkg/timex"
)

// SyncConflictDTO Sync conflict data transfer object
// SyncConflictDTO 同步冲突数据传输对象
type SyncConflictDTO struct {
	ID            int64      `json:"id"`
	ContentType   string     `json:"contentType"`
	ItemID        string     `json:"itemId"`
	ItemName      string     `json:"itemName,omitempty"`
	LocalVersion  int64      `json:"localVersion"`
	LocalHash     string     `json:"localHash,omitempty"`
	RemoteVersion int64      `json:"remoteVersion"`
	RemoteHash    string     `json:"remoteHash,omitempty"`
	RemotePeerID  string     `json:"remotePeerId,omitempty"`
	Resolution    string     `json:"resolution"`
	DetectedAt    timex.Time `json:"detectedAt"`
	ResolvedAt    timex.Time `json:"resolvedAt,omitempty"`
}

// ---------------- Request ----------------

// ConflictRecordRequest 记录冲突的请求参数
type ConflictRecordRequest struct {
	ContentType   string `json:"contentType" form:"contentType" binding:"required"`
	ItemID        string `json:"itemId" form:"itemId" binding:"required"`
	ItemName      string `json:"itemName" form:"itemName"`
	// 版本号 0 合法（条目尚无本地历史），不能标 required
	LocalVersion  int64  `json:"localVersion" form:"localVersion"`
	LocalHash     string `json:"localHash" form:"localHash"`
	RemoteVersion int64  `json:"remoteVersion" form:"remoteVersion"`
	RemoteHash    string `json:"remoteHash" form:"remoteHash"`
	RemotePeerID  string `json:"remotePeerId" form:"remotePeerId" binding:"required"`
}

// ConflictResolveRequest 处理冲突的请求参数
type ConflictResolveRequest struct {
	ID         int64  `json:"id" form:"id" binding:"required"`
	Resolution string `json:"resolution" form:"resolution" binding:"required"`
}
