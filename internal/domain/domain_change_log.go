package domain

import "time"

// ChangeLogEntry 变更日志条目领域模型
// Version 是整个日志的全局单调计数器，与快照的按条目版本号相互独立
type ChangeLogEntry struct {
	ID          int64
	Version     int64
	ChangeType  ChangeType
	ContentType ContentType
	ItemID      string
	ContentHash string
	// Data 仅 delete 类型允许为空
	Data   string
	Synced bool
	// SourceID 为空表示本地产生，非空为远端 peer 标识
	SourceID  string
	CreatedAt time.Time
}
