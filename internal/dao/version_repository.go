package dao

import (
	"context"
	"errors"
	"time"

	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/model"
	"github.com/mekstation/vault-sync-service/pkg/timex"

	"gorm.io/gorm"
)

// versionRepository implements domain.VersionRepository interface
type versionRepository struct {
	dao *Dao
}

var _ domain.VersionRepository = (*versionRepository)(nil)

// NewVersionRepository creates a VersionRepository instance
func NewVersionRepository(dao *Dao) domain.VersionRepository {
	return &versionRepository{dao: dao}
}

func (r *versionRepository) getDB(ctx context.Context) *gorm.DB {
	return r.dao.DB().WithContext(ctx)
}

// toDomain converts database model to domain model
func (r *versionRepository) toDomain(m *model.VersionSnapshot) *domain.VersionSnapshot {
	if m == nil {
		return nil
	}
	return m.ToDomain()
}

// Save 保存新版本快照
// 在同一事务内读取当前最大版本号并写入 max+1，保证版本号严格递增无空洞
func (r *versionRepository) Save(ctx context.Context, snapshot *domain.VersionSnapshot) (*domain.VersionSnapshot, error) {
	m := model.VersionSnapshotFromDomain(snapshot)
	m.ID = 0
	m.CreatedAt = timex.Now()

	err := r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		var maxVersion int64
		err := tx.Model(&model.VersionSnapshot{}).
			Select("COALESCE(MAX(version), 0)").
			Where("item_id = ? AND content_type = ?", m.ItemID, m.ContentType).
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

// GetVersions 获取条目的版本列表，按版本号从新到旧
func (r *versionRepository) GetVersions(ctx context.Context, itemID string, contentType domain.ContentType, limit int) ([]*domain.VersionSnapshot, error) {
	var list []*model.VersionSnapshot

	db := r.getDB(ctx).
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Order("version DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&list).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.VersionSnapshot, 0, len(list))
	for _, m := range list {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

// GetVersion 按版本号点查，不存在时返回 nil
func (r *versionRepository) GetVersion(ctx context.Context, itemID string, contentType domain.ContentType, version int64) (*domain.VersionSnapshot, error) {
	var m model.VersionSnapshot

	err := r.getDB(ctx).
		Where("item_id = ? AND content_type = ? AND version = ?", itemID, string(contentType), version).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetLatestVersion 获取条目的最新版本，不存在时返回 nil
func (r *versionRepository) GetLatestVersion(ctx context.Context, itemID string, contentType domain.ContentType) (*domain.VersionSnapshot, error) {
	var m model.VersionSnapshot

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

// GetVersionByID 按快照 ID 点查，不存在时返回 nil
func (r *versionRepository) GetVersionByID(ctx context.Context, id int64) (*domain.VersionSnapshot, error) {
	var m model.VersionSnapshot

	err := r.getDB(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetVersionRange 获取 [from, to] 闭区间的版本，按版本号升序
func (r *versionRepository) GetVersionRange(ctx context.Context, itemID string, contentType domain.ContentType, from, to int64) ([]*domain.VersionSnapshot, error) {
	var list []*model.VersionSnapshot

	err := r.getDB(ctx).
		Where("item_id = ? AND content_type = ? AND version >= ? AND version <= ?",
			itemID, string(contentType), from, to).
		Order("version ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.VersionSnapshot, 0, len(list))
	for _, m := range list {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

// GetVersionCount 获取条目的版本总数
func (r *versionRepository) GetVersionCount(ctx context.Context, itemID string, contentType domain.ContentType) (int64, error) {
	var count int64

	err := r.getDB(ctx).Model(&model.VersionSnapshot{}).
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetStorageUsed 获取条目所有版本占用的字节数
func (r *versionRepository) GetStorageUsed(ctx context.Context, itemID string, contentType domain.ContentType) (int64, error) {
	var total int64

	err := r.getDB(ctx).Model(&model.VersionSnapshot{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Row().Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteVersion 按快照 ID 删除，返回是否确有删除
func (r *versionRepository) DeleteVersion(ctx context.Context, id int64) (bool, error) {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&model.VersionSnapshot{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllVersions 删除条目的全部版本，返回删除数量
func (r *versionRepository) DeleteAllVersions(ctx context.Context, itemID string, contentType domain.ContentType) (int64, error) {
	result := r.getDB(ctx).
		Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
		Delete(&model.VersionSnapshot{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// PruneOldVersions 仅保留最新的 keepCount 个版本
// 删除版本号严格小于阈值（从新到旧第 keepCount 个版本）的所有行，存活行不重编号
func (r *versionRepository) PruneOldVersions(ctx context.Context, itemID string, contentType domain.ContentType, keepCount int) (int64, error) {
	if keepCount <= 0 {
		return 0, nil
	}

	var deleted int64
	err := r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		var cutoff model.VersionSnapshot
		err := tx.
			Where("item_id = ? AND content_type = ?", itemID, string(contentType)).
			Order("version DESC").
			Offset(keepCount - 1).
			First(&cutoff).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 版本数不足 keepCount，不删除
			return nil
		}
		if err != nil {
			return err
		}

		result := tx.
			Where("item_id = ? AND content_type = ? AND version < ?",
				itemID, string(contentType), cutoff.Version).
			Delete(&model.VersionSnapshot{})
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

// PruneByDate 跨条目删除早于指定时间的版本
func (r *versionRepository) PruneByDate(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.getDB(ctx).
		Where("created_at < ?", timex.Time(olderThan)).
		Delete(&model.VersionSnapshot{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
