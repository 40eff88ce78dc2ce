package service

import (
	"context"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/dto"
	"github.com/mekstation/vault-sync-service/pkg/code"
	"github.com/mekstation/vault-sync-service/pkg/logger"
	"github.com/mekstation/vault-sync-service/pkg/timex"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// ConflictService defines the sync conflict business service interface
// ConflictService 定义同步冲突业务服务接口
type ConflictService interface {
	// RecordConflict records a divergence between local and remote histories
	// RecordConflict 记录本地与远端历史的一次分歧，初始状态为 pending
	RecordConflict(ctx context.Context, params *dto.ConflictRecordRequest) (*dto.SyncConflictDTO, error)

	// GetPendingConflicts lists unresolved conflicts, newest first
	// GetPendingConflicts 获取全部待处理冲突，从新到旧
	GetPendingConflicts(ctx context.Context) ([]*dto.SyncConflictDTO, error)

	// ResolveConflict transitions a conflict to a terminal resolution
	// ResolveConflict 把冲突迁移到终态
	// 冲突不存在时返回 false；重复处理静默覆盖
	ResolveConflict(ctx context.Context, id int64, resolution string) (bool, error)
}

// conflictService implementation of ConflictService interface
// conflictService 实现 ConflictService 接口
type conflictService struct {
	conflictRepo domain.ConflictRepository
	logger       *zap.Logger
}

var _ ConflictService = (*conflictService)(nil)

// NewConflictService creates ConflictService instance
// NewConflictService 创建 ConflictService 实例
func NewConflictService(conflictRepo domain.ConflictRepository, log *zap.Logger) ConflictService {
	return &conflictService{
		conflictRepo: conflictRepo,
		logger:       log,
	}
}

// domainToDTO converts domain model to DTO
// domainToDTO 将领域模型转换为 DTO
func (s *conflictService) domainToDTO(conflict *domain.SyncConflict) *dto.SyncConflictDTO {
	if conflict == nil {
		return nil
	}

	result := &dto.SyncConflictDTO{}
	if err := copier.Copy(result, conflict); err != nil {
		s.logger.Error("conflict dto copy failed", zap.Error(err))
		return nil
	}
	result.ContentType = string(conflict.ContentType)
	result.Resolution = string(conflict.Resolution)
	result.DetectedAt = timex.Time(conflict.DetectedAt)
	result.ResolvedAt = timex.Time(conflict.ResolvedAt)
	return result
}

// RecordConflict 记录一次冲突
func (s *conflictService) RecordConflict(ctx context.Context, params *dto.ConflictRecordRequest) (*dto.SyncConflictDTO, error) {
	contentType := domain.ContentType(params.ContentType)
	if !contentType.IsValid() {
		return nil, code.ErrorInvalidContentType.WithDetails(params.ContentType)
	}

	conflict, err := s.conflictRepo.Record(ctx, &domain.SyncConflict{
		ContentType:   contentType,
		ItemID:        params.ItemID,
		ItemName:      params.ItemName,
		LocalVersion:  params.LocalVersion,
		LocalHash:     params.LocalHash,
		RemoteVersion: params.RemoteVersion,
		RemoteHash:    params.RemoteHash,
		RemotePeerID:  params.RemotePeerID,
	})
	if err != nil {
		s.logger.Error("record conflict failed",
			zap.String(logger.FieldItemID, params.ItemID),
			zap.String(logger.FieldPeerID, params.RemotePeerID),
			zap.Error(err))
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	conflictsRecordedTotal.Inc()

	s.logger.Warn("sync conflict detected",
		zap.String(logger.FieldItemID, conflict.ItemID),
		zap.String(logger.FieldContentType, string(conflict.ContentType)),
		zap.Int64("localVersion", conflict.LocalVersion),
		zap.Int64("remoteVersion", conflict.RemoteVersion),
		zap.String(logger.FieldPeerID, conflict.RemotePeerID))

	return s.domainToDTO(conflict), nil
}

// GetPendingConflicts 获取全部待处理冲突
func (s *conflictService) GetPendingConflicts(ctx context.Context) ([]*dto.SyncConflictDTO, error) {
	list, err := s.conflictRepo.GetPending(ctx)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	result := make([]*dto.SyncConflictDTO, 0, len(list))
	for _, conflict := range list {
		result = append(result, s.domainToDTO(conflict))
	}
	return result, nil
}

// ResolveConflict 把冲突迁移到终态
func (s *conflictService) ResolveConflict(ctx context.Context, id int64, resolution string) (bool, error) {
	r := domain.Resolution(resolution)
	if !r.IsTerminal() {
		return false, code.ErrorInvalidResolution.WithDetails(resolution)
	}

	ok, err := s.conflictRepo.Resolve(ctx, id, r)
	if err != nil {
		return false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !ok {
		return false, code.ErrorConflictNotFound
	}

	conflictsResolvedTotal.WithLabelValues(resolution).Inc()

	s.logger.Info("conflict resolved",
		zap.Int64("conflictId", id),
		zap.String("resolution", resolution))

	return true, nil
}
