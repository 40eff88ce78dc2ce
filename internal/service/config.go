// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	History HistoryServiceConfig // Version history config // 版本历史配置
	Sync    SyncServiceConfig    // Change log sync config // 变更日志同步配置
}

// HistoryServiceConfig version history service configuration
// HistoryServiceConfig 版本历史服务配置
type HistoryServiceConfig struct {
	// KeepVersions 每个条目保留的版本数，0 表示不自动清理
	KeepVersions int
	// RetentionTime 按时间清理的保留时长（支持格式：720h、30m，空表示不按时间清理）
	RetentionTime string
	// DefaultListLimit 历史列表默认条数
	DefaultListLimit int
}

// SyncServiceConfig change log sync configuration
// SyncServiceConfig 变更日志同步配置
type SyncServiceConfig struct {
	// KeepChanges 已同步变更的全局保留条数
	KeepChanges int
	// DefaultBatchLimit 游标拉取的默认批大小
	DefaultBatchLimit int
}
