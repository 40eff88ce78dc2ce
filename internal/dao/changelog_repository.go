package dao

import (
	"context"
	"errors"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/model"
	"github.com/mekstation/vault-sync-service/pkg/timex"

	"gorm.io/gorm"
)

// changeLogRepository implements domain.ChangeLogRepository interface
type changeLogRepository struct {
	dao *Dao
}

var _ domain.ChangeLogRepository = (*changeLogRepository)(nil)

// NewChangeLogRepository creates a ChangeLogRepository instance
func NewChangeLogRepository(dao *Dao) domain.ChangeLogRepository {
	return &changeLogRepository{dao: dao}
}

func (r *changeLogRepository) getDB(ctx context.Context) *gorm.DB {
	return r.dao.DB().WithContext(ctx)
}

func (r *changeLogRepository) toDomain(m *model.ChangeLog) *domain.ChangeLogEntry {
	if m == nil {
		return nil
	}
	return m.ToDomain()
}

func (r *changeLogRepository) toDomainList(list []*model.ChangeLog) []*domain.ChangeLogEntry {
	result := make([]*domain.ChangeLogEntry, 0, len(list))
	for _, m := range list {
		result = append(result, r.toDomain(m))
	}
	return result
}

// Record 追加日志条目
// 在同一事务内读取全局最大版本号并写入 max+1，跨条目全局单调
func (r *changeLogRepository) Record(ctx context.Context, entry *domain.ChangeLogEntry) (*domain.ChangeLogEntry, error) {
	m := model.ChangeLogFromDomain(entry)
	m.ID = 0
	m.CreatedAt = timex.Now()

	err := r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		var maxVersion int64
		err := tx.Model(&model.ChangeLog{}).
			Select("COALESCE(MAX(version), 0)").
			Row().Scan(&maxVersion)
		if err != nil {
			return err
		}
		m.Version = maxVersion + 1
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}

	return r.toDomain(m), nil
}

// GetUnsynced 获取全部未同步条目，按版本号升序
func (r *changeLogRepository) GetUnsynced(ctx context.Context) ([]*domain.ChangeLogEntry, error) {
	var list []*model.ChangeLog

	err := r.getDB(ctx).
		Where("synced = ?", false).
		Order("version ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(list), nil
}

// GetChangesSince 获取版本号大于 cursor 的条目，按版本号升序
func (r *changeLogRepository) GetChangesSince(ctx context.Context, cursor int64, limit int) ([]*domain.ChangeLogEntry, error) {
	var list []*model.ChangeLog

	db := r.getDB(ctx).
		Where("version > ?", cursor).
		Order("version ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&list).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(list), nil
}

// GetLatestForItem 获取条目最近一次变更，不存在时返回 nil
func (r *changeLogRepository) GetLatestForItem(ctx context.Context, itemID string, contentType domain.ContentType) (*domain.ChangeLogEntry, error) {
	var m model.ChangeLog

	err := r.getDB(ctx).
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Order("version DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetHistoryForItem 获取条目的全部变更，按版本号升序
func (r *changeLogRepository) GetHistoryForItem(ctx context.Context, itemID string, contentType domain.ContentType) ([]*domain.ChangeLogEntry, error) {
	var list []*model.ChangeLog

	err := r.getDB(ctx).
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Order("version ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(list), nil
}

// GetCurrentVersion 获取全局最大版本号，日志为空时返回 0
func (r *changeLogRepository) GetCurrentVersion(ctx context.Context) (int64, error) {
	var maxVersion int64

	err := r.getDB(ctx).Model(&model.ChangeLog{}).
		Select("COALESCE(MAX(version), 0)").
		Row().Scan(&maxVersion)
	if err != nil {
		return 0, err
	}
	return maxVersion, nil
}

// MarkSynced 批量把条目置为已同步
// 空列表不产生任何写入
func (r *changeLogRepository) MarkSynced(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.getDB(ctx).Model(&model.ChangeLog{}).
		Where("id IN ? AND synced = ?", ids, false).
		Update("synced", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// PruneOldChanges 删除超出 keepCount 的最旧已同步条目
// 未同步条目永不删除，避免丢失尚未复制出去的编辑
func (r *changeLogRepository) PruneOldChanges(ctx context.Context, keepCount int) (int64, error) {
	if keepCount < 0 {
		keepCount = 0
	}

	var deleted int64
	err := r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&model.ChangeLog{}).Count(&total).Error; err != nil {
			return err
		}
		excess := total - int64(keepCount)
		if excess <= 0 {
			return nil
		}

		// 只挑最旧的已同步条目
		var ids []int64
		err := tx.Model(&model.ChangeLog{}).
			Where("synced = ?", true).
			Order("version ASC").
			Limit(int(excess)).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		result := tx.Where("id IN ?", ids).Delete(&model.ChangeLog{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
