// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// VersionRepository 版本快照仓储接口
type VersionRepository interface {
	// Save 保存新版本快照，版本号 = 当前条目最大版本 + 1
	// 读取最大值与写入在同一事务内完成
	Save(ctx context.Context, snapshot *VersionSnapshot) (*VersionSnapshot, error)

	// GetVersions 获取条目的版本列表，按版本号从新到旧
	GetVersions(ctx context.Context, itemID string, contentType ContentType, limit int) ([]*VersionSnapshot, error)

	// GetVersion 按版本号点查，不存在时返回 nil
	GetVersion(ctx context.Context, itemID string, contentType ContentType, version int64) (*VersionSnapshot, error)

	// GetLatestVersion 获取条目的最新版本，不存在时返回 nil
	GetLatestVersion(ctx context.Context, itemID string, contentType ContentType) (*VersionSnapshot, error)

	// GetVersionByID 按快照 ID 点查，不存在时返回 nil
	GetVersionByID(ctx context.Context, id int64) (*VersionSnapshot, error)

	// GetVersionRange 获取 [from, to] 闭区间的版本，按版本号升序
	GetVersionRange(ctx context.Context, itemID string, contentType ContentType, from, to int64) ([]*VersionSnapshot, error)

	// GetVersionCount 获取条目的版本总数
	GetVersionCount(ctx context.Context, itemID string, contentType ContentType) (int64, error)

	// GetStorageUsed 获取条目所有版本占用的字节数
	GetStorageUsed(ctx context.Context, itemID string, contentType ContentType) (int64, error)

	// DeleteVersion 按快照 ID 删除，返回是否确有删除
	DeleteVersion(ctx context.Context, id int64) (bool, error)

	// DeleteAllVersions 删除条目的全部版本，返回删除数量
	DeleteAllVersions(ctx context.Context, itemID string, contentType ContentType) (int64, error)

	// PruneOldVersions 仅保留最新的 keepCount 个版本，返回删除数量
	// 版本数不足 keepCount 时不删除
	PruneOldVersions(ctx context.Context, itemID string, contentType ContentType, keepCount int) (int64, error)

	// PruneByDate 跨条目删除早于指定时间的版本，返回删除数量
	PruneByDate(ctx context.Context, olderThan time.Time) (int64, error)
}

// ChangeLogRepository 变更日志仓储接口
type ChangeLogRepository interface {
	// Record 追加日志条目，全局版本号 = 当前最大值 + 1
	// 读取最大值与写入在同一事务内完成
	Record(ctx context.Context, entry *ChangeLogEntry) (*ChangeLogEntry, error)

	// GetUnsynced 获取全部未同步条目，按版本号升序
	GetUnsynced(ctx context.Context) ([]*ChangeLogEntry, error)

	// GetChangesSince 获取版本号大于 cursor 的条目，按版本号升序，数量受 limit 限制
	GetChangesSince(ctx context.Context, cursor int64, limit int) ([]*ChangeLogEntry, error)

	// GetLatestForItem 获取条目最近一次变更，不存在时返回 nil
	GetLatestForItem(ctx context.Context, itemID string, contentType ContentType) (*ChangeLogEntry, error)

	// GetHistoryForItem 获取条目的全部变更，按版本号升序
	GetHistoryForItem(ctx context.Context, itemID string, contentType ContentType) ([]*ChangeLogEntry, error)

	// GetCurrentVersion 获取全局最大版本号，日志为空时返回 0
	GetCurrentVersion(ctx context.Context) (int64, error)

	// MarkSynced 批量把条目置为已同步，返回更新数量
	// 空列表不产生任何写入
	MarkSynced(ctx context.Context, ids []int64) (int64, error)

	// PruneOldChanges 删除超出 keepCount 的最旧已同步条目，返回删除数量
	// 未同步条目永不删除
	PruneOldChanges(ctx context.Context, keepCount int) (int64, error)
}

// ConflictRepository 同步冲突仓储接口
type ConflictRepository interface {
	// Record 记录新冲突，初始状态为 pending
	Record(ctx context.Context, conflict *SyncConflict) (*SyncConflict, error)

	// GetByID 按 ID 点查，不存在时返回 nil
	GetByID(ctx context.Context, id int64) (*SyncConflict, error)

	// GetPending 获取全部待处理冲突，按检出时间从新到旧
	GetPending(ctx context.Context) ([]*SyncConflict, error)

	// Resolve 更新冲突的处理状态，返回是否确有更新
	Resolve(ctx context.Context, id int64, resolution Resolution) (bool, error)
}
