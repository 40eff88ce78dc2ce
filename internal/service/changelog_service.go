package service

import (
	"context"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/dto"
	"github.com/mekstation/vault-sync-service/pkg/code"
	"github.com/mekstation/vault-sync-service/pkg/logger"

	"go.uber.org/zap"
)

// ChangeLogService defines the change journal business service interface
// ChangeLogService 定义变更日志业务服务接口
type ChangeLogService interface {
	// RecordChange appends a mutation to the journal
	// RecordChange 向日志追加一次变更
	// sourceId 非空的变更视为远端来源，生来即已同步
	RecordChange(ctx context.Context, params *dto.ChangeRecordRequest) (*dto.ChangeLogEntryDTO, error)

	// GetUnsynced lists all unsynced entries, ascending by version
	// GetUnsynced 获取全部未同步条目，按版本号升序
	GetUnsynced(ctx context.Context) ([]*dto.ChangeLogEntryDTO, error)

	// GetChangesSince returns entries with version > cursor, ascending
	// GetChangesSince 获取版本号大于游标的条目，按版本号升序
	GetChangesSince(ctx context.Context, cursor int64, limit int) ([]*dto.ChangeLogEntryDTO, error)

	// GetLatestForItem returns the most recent change of one item
	// GetLatestForItem 获取条目最近一次变更，无记录时返回 nil
	GetLatestForItem(ctx context.Context, itemID string, contentType domain.ContentType) (*dto.ChangeLogEntryDTO, error)

	// GetHistoryForItem returns the full local journal of one item
	// GetHistoryForItem 获取条目的全部本地变更，按版本号升序
	GetHistoryForItem(ctx context.Context, itemID string, contentType domain.ContentType) ([]*dto.ChangeLogEntryDTO, error)

	// GetCurrentVersion returns the global max version, 0 for empty log
	// GetCurrentVersion 获取全局最大版本号，空日志返回 0
	GetCurrentVersion(ctx context.Context) (int64, error)

	// MarkSynced flips entries to synced, returns updated count
	// MarkSynced 批量把条目置为已同步，返回更新数量
	MarkSynced(ctx context.Context, ids []int64) (int64, error)

	// PruneOldChanges trims the oldest synced entries beyond keepCount
	// PruneOldChanges 裁剪超出保留数的最旧已同步条目
	PruneOldChanges(ctx context.Context, keepCount int) (int64, error)
}

// changeLogService implementation of ChangeLogService interface
// changeLogService 实现 ChangeLogService 接口
type changeLogService struct {
	changeRepo domain.ChangeLogRepository
	logger     *zap.Logger
	config     *SyncServiceConfig
}

var _ ChangeLogService = (*changeLogService)(nil)

// NewChangeLogService creates ChangeLogService instance
// NewChangeLogService 创建 ChangeLogService 实例
func NewChangeLogService(changeRepo domain.ChangeLogRepository, log *zap.Logger, config *SyncServiceConfig) ChangeLogService {
	if config == nil {
		config = &SyncServiceConfig{KeepChanges: 1000, DefaultBatchLimit: 100}
	}
	if config.DefaultBatchLimit <= 0 {
		config.DefaultBatchLimit = 100
	}
	return &changeLogService{
		changeRepo: changeRepo,
		logger:     log,
		config:     config,
	}
}

// RecordChange 向日志追加一次变更
func (s *changeLogService) RecordChange(ctx context.Context, params *dto.ChangeRecordRequest) (*dto.ChangeLogEntryDTO, error) {
	changeType := domain.ChangeType(params.ChangeType)
	if !changeType.IsValid() {
		return nil, code.ErrorInvalidChangeType.WithDetails(params.ChangeType)
	}
	contentType := domain.ContentType(params.ContentType)
	if !contentType.IsValid() {
		return nil, code.ErrorInvalidContentType.WithDetails(params.ContentType)
	}
	// data 与 contentHash 仅 delete 类型允许为空
	if changeType != domain.ChangeTypeDelete && (params.Data == "" || params.ContentHash == "") {
		return nil, code.ErrorChangeDataRequired.WithContext(params.ItemID)
	}

	entry, err := s.changeRepo.Record(ctx, &domain.ChangeLogEntry{
		ChangeType:  changeType,
		ContentType: contentType,
		ItemID:      params.ItemID,
		ContentHash: params.ContentHash,
		Data:        params.Data,
		Synced:      params.SourceID != "",
		SourceID:    params.SourceID,
	})
	if err != nil {
		s.logger.Error("record change failed",
			zap.String(logger.FieldItemID, params.ItemID),
			zap.String(logger.FieldChangeType, params.ChangeType),
			zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	origin := changeOriginLocal
	if entry.SourceID != "" {
		origin = changeOriginRemote
	}
	changesRecordedTotal.WithLabelValues(origin).Inc()

	s.logger.Info("change recorded",
		zap.String(logger.FieldItemID, entry.ItemID),
		zap.String(logger.FieldChangeType, string(entry.ChangeType)),
		zap.Int64(logger.FieldVersion, entry.Version),
		zap.String(logger.FieldPeerID, entry.SourceID),
		zap.Bool("synced", entry.Synced))

	return dto.ChangeLogEntryFromDomain(entry), nil
}

// GetUnsynced 获取全部未同步条目
func (s *changeLogService) GetUnsynced(ctx context.Context) ([]*dto.ChangeLogEntryDTO, error) {
	list, err := s.changeRepo.GetUnsynced(ctx)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.ChangeLogEntryListFromDomain(list), nil
}

// GetChangesSince 按游标增量拉取变更
func (s *changeLogService) GetChangesSince(ctx context.Context, cursor int64, limit int) ([]*dto.ChangeLogEntryDTO, error) {
	if limit <= 0 {
		limit = s.config.DefaultBatchLimit
	}

	list, err := s.changeRepo.GetChangesSince(ctx, cursor, limit)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.ChangeLogEntryListFromDomain(list), nil
}

// GetLatestForItem 获取条目最近一次变更
func (s *changeLogService) GetLatestForItem(ctx context.Context, itemID string, contentType domain.ContentType) (*dto.ChangeLogEntryDTO, error) {
	entry, err := s.changeRepo.GetLatestForItem(ctx, itemID, contentType)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.ChangeLogEntryFromDomain(entry), nil
}

// GetHistoryForItem 获取条目的全部本地变更
func (s *changeLogService) GetHistoryForItem(ctx context.Context, itemID string, contentType domain.ContentType) ([]*dto.ChangeLogEntryDTO, error) {
	list, err := s.changeRepo.GetHistoryForItem(ctx, itemID, contentType)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.ChangeLogEntryListFromDomain(list), nil
}

// GetCurrentVersion 获取全局最大版本号
func (s *changeLogService) GetCurrentVersion(ctx context.Context) (int64, error) {
	current, err := s.changeRepo.GetCurrentVersion(ctx)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return current, nil
}

// MarkSynced 批量确认同步
// 同步参与方按至少一次语义工作，重复确认是安全的
func (s *changeLogService) MarkSynced(ctx context.Context, ids []int64) (int64, error) {
	updated, err := s.changeRepo.MarkSynced(ctx, ids)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if updated > 0 {
		s.logger.Info("changes marked synced", zap.Int64("updated", updated))
	}
	return updated, nil
}

// PruneOldChanges 裁剪最旧的已同步条目
func (s *changeLogService) PruneOldChanges(ctx context.Context, keepCount int) (int64, error) {
	if keepCount <= 0 {
		keepCount = s.config.KeepChanges
	}

	deleted, err := s.changeRepo.PruneOldChanges(ctx, keepCount)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if deleted > 0 {
		s.logger.Info("old changes pruned", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
