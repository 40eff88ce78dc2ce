package task

import (
	"context"
	"time"

	"github.com/mekstation/vault-sync-service/internal/service"

	"go.uber.org/zap"
)

// VersionRetentionTask 按时间清理过期的版本快照
// 删除早于保留时长的快照，跨所有条目，版本号不重排
type VersionRetentionTask struct {
	historyService service.VersionHistoryService
	retention      time.Duration
	interval       time.Duration
	logger         *zap.Logger
}

// NewVersionRetentionTask 创建版本历史清理任务实例
func NewVersionRetentionTask(historyService service.VersionHistoryService, retention, interval time.Duration, logger *zap.Logger) *VersionRetentionTask {
	return &VersionRetentionTask{
		historyService: historyService,
		retention:      retention,
		interval:       interval,
		logger:         logger,
	}
}

// Name 返回任务名称
func (t *VersionRetentionTask) Name() string {
	return "VersionRetention"
}

// LoopInterval 返回执行间隔
func (t *VersionRetentionTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 启动时立即执行一次
func (t *VersionRetentionTask) IsStartupRun() bool {
	return true
}

// Run 执行清理
func (t *VersionRetentionTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.retention)

	deleted, err := t.historyService.PruneByDate(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		t.logger.Info("task log",
			zap.String("task", t.Name()),
			zap.Time("cutoff", cutoff),
			zap.Int64("deleted", deleted))
	}
	return nil
}
