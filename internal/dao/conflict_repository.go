package dao

import (
	"context"
	"errors"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/model"
	"github.com/mekstation/vault-sync-service/pkg/timex"

	"gorm.io/gorm"
)

// conflictRepository implements domain.ConflictRepository interface
type conflictRepository struct {
	dao *Dao
}

var _ domain.ConflictRepository = (*conflictRepository)(nil)

// NewConflictRepository creates a ConflictRepository instance
func NewConflictRepository(dao *Dao) domain.ConflictRepository {
	return &conflictRepository{dao: dao}
}

func (r *conflictRepository) getDB(ctx context.Context) *gorm.DB {
	return r.dao.DB().WithContext(ctx)
}

func (r *conflictRepository) toDomain(m *model.SyncConflict) *domain.SyncConflict {
	if m == nil {
		return nil
	}
	return m.ToDomain()
}

// Record 记录新冲突，初始状态固定为 pending
func (r *conflictRepository) Record(ctx context.Context, conflict *domain.SyncConflict) (*domain.SyncConflict, error) {
	m := model.SyncConflictFromDomain(conflict)
	m.ID = 0
	m.Resolution = string(domain.ResolutionPending)
	m.DetectedAt = timex.Now()

	if err := r.getDB(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 按 ID 点查，不存在时返回 nil
func (r *conflictRepository) GetByID(ctx context.Context, id int64) (*domain.SyncConflict, error) {
	var m model.SyncConflict

	err := r.getDB(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetPending 获取全部待处理冲突，按检出时间从新到旧
func (r *conflictRepository) GetPending(ctx context.Context) ([]*domain.SyncConflict, error) {
	var list []*model.SyncConflict

	err := r.getDB(ctx).
		Where("resolution = ?", string(domain.ResolutionPending)).
		Order("detected_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.SyncConflict, 0, len(list))
	for _, m := range list {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

// Resolve 更新冲突处理状态，返回是否确有更新
// 对已处理冲突再次调用会静默覆盖
func (r *conflictRepository) Resolve(ctx context.Context, id int64, resolution domain.Resolution) (bool, error) {
	result := r.getDB(ctx).Model(&model.SyncConflict{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolution":  string(resolution),
			"resolved_at": timex.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
