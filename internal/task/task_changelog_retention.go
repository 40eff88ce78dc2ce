package task

import (
	"context"
	"time"

	"github.com/mekstation/vault-sync-service/internal/service"

	"go.uber.org/zap"
)

// ChangeLogRetentionTask 裁剪超出保留数的已同步变更
// 未同步的变更永不删除
type ChangeLogRetentionTask struct {
	changeService service.ChangeLogService
	keepCount     int
	interval      time.Duration
	logger        *zap.Logger
}

// NewChangeLogRetentionTask 创建变更日志裁剪任务实例
func NewChangeLogRetentionTask(changeService service.ChangeLogService, keepCount int, interval time.Duration, logger *zap.Logger) *ChangeLogRetentionTask {
	return &ChangeLogRetentionTask{
		changeService: changeService,
		keepCount:     keepCount,
		interval:      interval,
		logger:        logger,
	}
}

// Name 返回任务名称
func (t *ChangeLogRetentionTask) Name() string {
	return "ChangeLogRetention"
}

// LoopInterval 返回执行间隔
func (t *ChangeLogRetentionTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 启动时不立即执行，等首个周期
func (t *ChangeLogRetentionTask) IsStartupRun() bool {
	return false
}

// Run 执行裁剪
func (t *ChangeLogRetentionTask) Run(ctx context.Context) error {
	deleted, err := t.changeService.PruneOldChanges(ctx, t.keepCount)
	if err != nil {
		return err
	}

	if deleted > 0 {
		t.logger.Info("task log",
			zap.String("task", t.Name()),
			zap.Int("keepCount", t.keepCount),
			zap.Int64("deleted", deleted))
	}
	return nil
}
