package task

import (
	"github.com/mekstation/vault-sync-service/internal/app"
	"github.com/mekstation/vault-sync-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器，负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	app       *app.App
	logger    *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(appContainer *app.App, logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		app:       appContainer,
		logger:    logger,
	}
}

// RegisterTasks 注册所有任务
// 任务依赖 Service 层，由管理器注入构造
func (m *Manager) RegisterTasks() error {
	cfg := m.app.Config()

	// 版本历史按时间清理任务，未配置保留时长时不启用
	if retention := cfg.GetHistoryRetentionTime(); retention > 0 {
		m.scheduler.AddTask(NewVersionRetentionTask(
			m.app.HistoryService,
			retention,
			cfg.GetHistoryPruneInterval(),
			m.logger,
		))
	} else {
		m.logger.Info("version retention task is disabled (retention time not configured)")
	}

	// 变更日志裁剪任务，保留数为 0 时不启用
	if cfg.Sync.KeepChanges > 0 {
		m.scheduler.AddTask(NewChangeLogRetentionTask(
			m.app.ChangeService,
			cfg.Sync.KeepChanges,
			cfg.GetSyncPruneInterval(),
			m.logger,
		))
	} else {
		m.logger.Info("changelog retention task is disabled (keep-changes not configured)")
	}

	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
