// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/dto"
	"github.com/mekstation/vault-sync-service/pkg/code"
	"github.com/mekstation/vault-sync-service/pkg/diff"
	"github.com/mekstation/vault-sync-service/pkg/logger"
	"github.com/mekstation/vault-sync-service/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ApplyContentFn writes restored content back into the live domain object
// ApplyContentFn 把恢复的内容写回领域层的活动对象
// 返回 false 表示写回被拒绝，回滚不落任何持久化数据
type ApplyContentFn func(ctx context.Context, itemID string, contentType domain.ContentType, content string) bool

// VersionHistoryService defines the version history business service interface
// VersionHistoryService 定义版本历史业务服务接口
type VersionHistoryService interface {
	// SaveVersion saves a new version snapshot
	// SaveVersion 保存新版本快照
	// skipIfUnchanged 且内容哈希与最新版本一致时不落库，返回 (nil, nil)
	SaveVersion(ctx context.Context, params *dto.VersionSaveRequest) (*dto.VersionSnapshotDTO, error)

	// GetHistory retrieves version history, newest first
	// GetHistory 获取版本历史，从新到旧
	GetHistory(ctx context.Context, itemID string, contentType domain.ContentType, limit int) ([]*dto.VersionSnapshotDTO, error)

	// GetVersion retrieves one snapshot by version number
	// GetVersion 按版本号获取单个快照
	GetVersion(ctx context.Context, itemID string, contentType domain.ContentType, version int64) (*dto.VersionSnapshotDTO, error)

	// GetHistorySummary summarizes history for one item, zero-safe when empty
	// GetHistorySummary 汇总条目历史，无历史时全零
	GetHistorySummary(ctx context.Context, itemID string, contentType domain.ContentType) (*dto.HistorySummaryDTO, error)

	// DiffVersions computes the field level diff between two stored versions
	// DiffVersions 计算两个已存版本之间的字段级差异
	// 任一版本不存在时返回 (nil, nil)
	DiffVersions(ctx context.Context, itemID string, contentType domain.ContentType, fromVersion, toVersion int64) (*dto.VersionDiffDTO, error)

	// DiffWithLatest diffs a stored version against the current latest
	// DiffWithLatest 计算指定版本与当前最新版本的差异
	DiffWithLatest(ctx context.Context, itemID string, contentType domain.ContentType, fromVersion int64) (*dto.VersionDiffDTO, error)

	// RollbackToVersion restores target version content as a new forward version
	// RollbackToVersion 把目标版本内容作为新版本追加，从不改写历史
	RollbackToVersion(ctx context.Context, itemID string, contentType domain.ContentType, targetVersion int64, actor string) (*dto.RollbackResultDTO, error)

	// RollbackToVersionByID same contract, resolved by snapshot id
	// RollbackToVersionByID 同样的契约，按快照 ID 定位
	RollbackToVersionByID(ctx context.Context, versionID int64, actor string) (*dto.RollbackResultDTO, error)

	// PruneVersions keeps only the newest keepCount versions of one item
	// PruneVersions 仅保留条目最新的 keepCount 个版本
	PruneVersions(ctx context.Context, itemID string, contentType domain.ContentType, keepCount int) (int64, error)

	// PruneByDate deletes versions older than the given time, across all items
	// PruneByDate 跨条目删除早于指定时间的版本
	PruneByDate(ctx context.Context, olderThan time.Time) (int64, error)

	// DeleteVersion deletes one snapshot by id
	// DeleteVersion 按快照 ID 删除
	DeleteVersion(ctx context.Context, versionID int64) (bool, error)

	// DeleteAllVersions deletes the whole history of one item
	// DeleteAllVersions 删除条目的全部历史
	DeleteAllVersions(ctx context.Context, itemID string, contentType domain.ContentType) (int64, error)
}

// versionHistoryService implementation of VersionHistoryService interface
// versionHistoryService 实现 VersionHistoryService 接口
type versionHistoryService struct {
	versionRepo  domain.VersionRepository
	applyContent ApplyContentFn
	sf           *singleflight.Group // 汇总查询合并 // Summary query coalescing
	logger       *zap.Logger
	config       *HistoryServiceConfig
}

var _ VersionHistoryService = (*versionHistoryService)(nil)

// NewVersionHistoryService creates VersionHistoryService instance
// NewVersionHistoryService 创建 VersionHistoryService 实例
func NewVersionHistoryService(versionRepo domain.VersionRepository, applyContent ApplyContentFn, log *zap.Logger, config *HistoryServiceConfig) VersionHistoryService {
	if config == nil {
		config = &HistoryServiceConfig{KeepVersions: 100, DefaultListLimit: 50}
	}
	if config.DefaultListLimit <= 0 {
		config.DefaultListLimit = 50
	}
	return &versionHistoryService{
		versionRepo:  versionRepo,
		applyContent: applyContent,
		sf:           &singleflight.Group{},
		logger:       log,
		config:       config,
	}
}

// SaveVersion 保存新版本快照
func (s *versionHistoryService) SaveVersion(ctx context.Context, params *dto.VersionSaveRequest) (*dto.VersionSnapshotDTO, error) {
	contentType := domain.ContentType(params.ContentType)
	if !contentType.IsValid() {
		return nil, code.ErrorInvalidContentType.WithDetails(params.ContentType)
	}

	contentHash := util.EncodeSHA256(params.Content)

	if params.SkipIfUnchanged {
		latest, err := s.versionRepo.GetLatestVersion(ctx, params.ItemID, contentType)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		if latest != nil && latest.ContentHash == contentHash {
			// 内容未变化，不产生新版本
			versionSaveSkipsTotal.Inc()
			return nil, nil
		}
	}

	createdBy := params.CreatedBy
	if createdBy == "" {
		createdBy = util.GetMachineID()
	}

	saved, err := s.versionRepo.Save(ctx, &domain.VersionSnapshot{
		ContentType: contentType,
		ItemID:      params.ItemID,
		Content:     params.Content,
		ContentHash: contentHash,
		SizeBytes:   int64(len(params.Content)),
		CreatedBy:   createdBy,
		Message:     params.Message,
	})
	if err != nil {
		s.logger.Error("save version failed",
			zap.String(logger.FieldItemID, params.ItemID),
			zap.String(logger.FieldContentType, params.ContentType),
			zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	versionSavesTotal.WithLabelValues(string(saved.ContentType)).Inc()

	s.logger.Info("version saved",
		zap.String(logger.FieldItemID, saved.ItemID),
		zap.String(logger.FieldContentType, string(saved.ContentType)),
		zap.Int64(logger.FieldVersion, saved.Version),
		zap.Int64(logger.FieldSize, saved.SizeBytes))

	return dto.VersionSnapshotFromDomain(saved), nil
}

// GetHistory 获取版本历史，从新到旧
func (s *versionHistoryService) GetHistory(ctx context.Context, itemID string, contentType domain.ContentType, limit int) ([]*dto.VersionSnapshotDTO, error) {
	if limit <= 0 {
		limit = s.config.DefaultListLimit
	}

	list, err := s.versionRepo.GetVersions(ctx, itemID, contentType, limit)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.VersionSnapshotListFromDomain(list), nil
}

// GetVersion 按版本号获取单个快照
func (s *versionHistoryService) GetVersion(ctx context.Context, itemID string, contentType domain.ContentType, version int64) (*dto.VersionSnapshotDTO, error) {
	snapshot, err := s.versionRepo.GetVersion(ctx, itemID, contentType, version)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return dto.VersionSnapshotFromDomain(snapshot), nil
}

// GetHistorySummary 汇总条目历史
// 同一条目的并发汇总请求经 singleflight 合并
func (s *versionHistoryService) GetHistorySummary(ctx context.Context, itemID string, contentType domain.ContentType) (*dto.HistorySummaryDTO, error) {
	key := fmt.Sprintf("summary:%s:%s", contentType, itemID)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.buildHistorySummary(ctx, itemID, contentType)
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.HistorySummaryDTO), nil
}

func (s *versionHistoryService) buildHistorySummary(ctx context.Context, itemID string, contentType domain.ContentType) (*dto.HistorySummaryDTO, error) {
	summary := &domain.HistorySummary{
		ItemID:      itemID,
		ContentType: contentType,
	}

	count, err := s.versionRepo.GetVersionCount(ctx, itemID, contentType)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	summary.TotalVersions = count

	if count > 0 {
		used, err := s.versionRepo.GetStorageUsed(ctx, itemID, contentType)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		summary.TotalSizeBytes = used

		latest, err := s.versionRepo.GetLatestVersion(ctx, itemID, contentType)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		if latest != nil {
			summary.CurrentVersion = latest.Version
			summary.NewestVersion = latest.Version
			// 版本号从 1 起严格递增无空洞
			summary.OldestVersion = latest.Version - count + 1
		}
	}

	return dto.HistorySummaryFromDomain(summary), nil
}

// DiffVersions 计算两个已存版本之间的字段级差异
func (s *versionHistoryService) DiffVersions(ctx context.Context, itemID string, contentType domain.ContentType, fromVersion, toVersion int64) (*dto.VersionDiffDTO, error) {
	from, err := s.versionRepo.GetVersion(ctx, itemID, contentType, fromVersion)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	to, err := s.versionRepo.GetVersion(ctx, itemID, contentType, toVersion)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if from == nil || to == nil {
		return nil, nil
	}

	result := diff.Fields(from.Content, to.Content)

	return &dto.VersionDiffDTO{
		FromVersion:   from.Version,
		ToVersion:     to.Version,
		ChangedFields: result.ChangedFields,
		Additions:     result.Additions,
		Deletions:     result.Deletions,
		Modifications: result.Modifications,
		Patch:         diff.Patch(from.Content, to.Content),
	}, nil
}

// DiffWithLatest 计算指定版本与当前最新版本的差异
func (s *versionHistoryService) DiffWithLatest(ctx context.Context, itemID string, contentType domain.ContentType, fromVersion int64) (*dto.VersionDiffDTO, error) {
	latest, err := s.versionRepo.GetLatestVersion(ctx, itemID, contentType)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if latest == nil {
		return nil, nil
	}
	return s.DiffVersions(ctx, itemID, contentType, fromVersion, latest.Version)
}

// RollbackToVersion 回滚到指定版本
// 状态机：版本查找（NOT_FOUND）-> 写回活动内容（APPLY_FAILED，不落库）-> 追加新快照
func (s *versionHistoryService) RollbackToVersion(ctx context.Context, itemID string, contentType domain.ContentType, targetVersion int64, actor string) (*dto.RollbackResultDTO, error) {
	target, err := s.versionRepo.GetVersion(ctx, itemID, contentType, targetVersion)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if target == nil {
		rollbacksTotal.WithLabelValues(rollbackOutcomeNotFound).Inc()
		return &dto.RollbackResultDTO{Success: false, Error: "NOT_FOUND"},
			code.ErrorVersionNotFound.WithContext(itemID)
	}
	return s.rollback(ctx, target, actor)
}

// RollbackToVersionByID 按快照 ID 回滚
func (s *versionHistoryService) RollbackToVersionByID(ctx context.Context, versionID int64, actor string) (*dto.RollbackResultDTO, error) {
	target, err := s.versionRepo.GetVersionByID(ctx, versionID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if target == nil {
		rollbacksTotal.WithLabelValues(rollbackOutcomeNotFound).Inc()
		return &dto.RollbackResultDTO{Success: false, Error: "NOT_FOUND"},
			code.ErrorVersionNotFound
	}
	return s.rollback(ctx, target, actor)
}

func (s *versionHistoryService) rollback(ctx context.Context, target *domain.VersionSnapshot, actor string) (*dto.RollbackResultDTO, error) {
	// 先写回活动内容，被拒绝时历史保持原样
	if s.applyContent != nil && !s.applyContent(ctx, target.ItemID, target.ContentType, target.Content) {
		s.logger.Warn("rollback apply rejected",
			zap.String(logger.FieldItemID, target.ItemID),
			zap.String(logger.FieldContentType, string(target.ContentType)),
			zap.Int64(logger.FieldVersion, target.Version))
		rollbacksTotal.WithLabelValues(rollbackOutcomeApplyFailed).Inc()
		return &dto.RollbackResultDTO{Success: false, Error: "APPLY_FAILED"},
			code.ErrorApplyContent.WithContext(target.ItemID)
	}

	if actor == "" {
		actor = util.GetMachineID()
	}

	restored, err := s.versionRepo.Save(ctx, &domain.VersionSnapshot{
		ContentType: target.ContentType,
		ItemID:      target.ItemID,
		Content:     target.Content,
		ContentHash: target.ContentHash,
		SizeBytes:   target.SizeBytes,
		CreatedBy:   actor,
		Message:     fmt.Sprintf("Rollback to version %d", target.Version),
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	rollbacksTotal.WithLabelValues(rollbackOutcomeSuccess).Inc()

	s.logger.Info("version rolled back",
		zap.String(logger.FieldItemID, restored.ItemID),
		zap.String(logger.FieldContentType, string(restored.ContentType)),
		zap.Int64("targetVersion", target.Version),
		zap.Int64(logger.FieldVersion, restored.Version))

	return &dto.RollbackResultDTO{
		Success:         true,
		RestoredVersion: dto.VersionSnapshotFromDomain(restored),
	}, nil
}

// PruneVersions 仅保留条目最新的 keepCount 个版本
// keepCount <= 0 时使用配置的默认保留数
func (s *versionHistoryService) PruneVersions(ctx context.Context, itemID string, contentType domain.ContentType, keepCount int) (int64, error) {
	if keepCount <= 0 {
		keepCount = s.config.KeepVersions
	}
	if keepCount <= 0 {
		// 未配置保留数时不清理
		return 0, nil
	}
	deleted, err := s.versionRepo.PruneOldVersions(ctx, itemID, contentType, keepCount)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if deleted > 0 {
		s.logger.Info("versions pruned",
			zap.String(logger.FieldItemID, itemID),
			zap.String(logger.FieldContentType, string(contentType)),
			zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// PruneByDate 跨条目删除早于指定时间的版本
func (s *versionHistoryService) PruneByDate(ctx context.Context, olderThan time.Time) (int64, error) {
	deleted, err := s.versionRepo.PruneByDate(ctx, olderThan)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return deleted, nil
}

// DeleteVersion 按快照 ID 删除
func (s *versionHistoryService) DeleteVersion(ctx context.Context, versionID int64) (bool, error) {
	ok, err := s.versionRepo.DeleteVersion(ctx, versionID)
	if err != nil {
		return false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return ok, nil
}

// DeleteAllVersions 删除条目的全部历史
func (s *versionHistoryService) DeleteAllVersions(ctx context.Context, itemID string, contentType domain.ContentType) (int64, error) {
	deleted, err := s.versionRepo.DeleteAllVersions(ctx, itemID, contentType)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return deleted, nil
}
