package domain

import "time"

// VersionSnapshot 内容版本快照领域模型
// 创建后不可变，回滚只追加新版本，从不改写历史
type VersionSnapshot struct {
	ID          int64
	ContentType ContentType
	ItemID      string
	Version     int64
	ContentHash string
	Content     string
	SizeBytes   int64
	CreatedBy   string
	Message     string
	CreatedAt   time.Time
}

// HistorySummary 单个条目的历史汇总信息
type HistorySummary struct {
	ItemID         string
	ContentType    ContentType
	CurrentVersion int64
	TotalVersions  int64
	TotalSizeBytes int64
	OldestVersion  int64
	NewestVersion  int64
}
