// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"

	"github.com/mekstation/vault-sync-service/global"
	"github.com/mekstation/vault-sync-service/internal/dao"
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/service"
	pkgapp "github.com/mekstation/vault-sync-service/pkg/app"
	"github.com/mekstation/vault-sync-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// Repository 层
	VersionRepo  domain.VersionRepository
	ChangeRepo   domain.ChangeLogRepository
	ConflictRepo domain.ConflictRepository

	// Service 层
	HistoryService  service.VersionHistoryService
	ChangeService   service.ChangeLogService
	ConflictService service.ConflictService
}

// Option App 容器的可选配置
type Option func(*options)

type options struct {
	applyContent service.ApplyContentFn
}

// WithApplyContentFn 注入活动内容写回函数
// 由持有活动（非版本化）对象的领域层提供
func WithApplyContentFn(fn service.ApplyContentFn) Option {
	return func(o *options) {
		o.applyContent = fn
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// log: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, log *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.applyContent == nil {
		// 默认写回实现：仅记录日志并放行
		// 活动对象由外部域持有，部署时应通过 WithApplyContentFn 注入真实实现
		o.applyContent = func(ctx context.Context, itemID string, contentType domain.ContentType, content string) bool {
			log.Debug("apply content accepted",
				zap.String(logger.FieldItemID, itemID),
				zap.String(logger.FieldContentType, string(contentType)))
			return true
		}
	}

	a := &App{
		config: cfg,
		logger: log,
		DB:     db,
	}

	// 创建 DatabaseConfig 用于 DAO
	dbConfig := &dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		UserName:        cfg.Database.UserName,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Name:            cfg.Database.Name,
		TablePrefix:     cfg.Database.TablePrefix,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Charset:         cfg.Database.Charset,
		ParseTime:       cfg.Database.ParseTime,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RunMode:         cfg.Server.RunMode,
	}

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db,
		dao.WithConfig(dbConfig),
		dao.WithLogger(log),
	)

	// 初始化 Repository 层
	a.VersionRepo = dao.NewVersionRepository(a.Dao)
	a.ChangeRepo = dao.NewChangeLogRepository(a.Dao)
	a.ConflictRepo = dao.NewConflictRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		History: service.HistoryServiceConfig{
			KeepVersions:     cfg.History.KeepVersions,
			RetentionTime:    cfg.History.RetentionTime,
			DefaultListLimit: cfg.History.DefaultListLimit,
		},
		Sync: service.SyncServiceConfig{
			KeepChanges:       cfg.Sync.KeepChanges,
			DefaultBatchLimit: cfg.Sync.DefaultBatchLimit,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.HistoryService = service.NewVersionHistoryService(a.VersionRepo, o.applyContent, log, &svcConfig.History)
	a.ChangeService = service.NewChangeLogService(a.ChangeRepo, log, &svcConfig.Sync)
	a.ConflictService = service.NewConflictService(a.ConflictRepo, log)

	log.Info("App container initialized successfully",
		zap.String("database", cfg.Database.Type),
		zap.Int("historyKeepVersions", cfg.History.KeepVersions),
		zap.Int("syncKeepChanges", cfg.Sync.KeepChanges))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   global.Version,
		GitTag:    global.GitTag,
		BuildTime: global.BuildTime,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}
