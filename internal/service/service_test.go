package service

import (
	"testing"

	"github.com/mekstation/vault-sync-service/internal/dao"
	"github.com/mekstation/vault-sync-service/internal/domain"
	"github.com/mekstation/vault-sync-service/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// testRepos 基于内存 SQLite 构建全套仓储
type testRepos struct {
	version  domain.VersionRepository
	change   domain.ChangeLogRepository
	conflict domain.ConflictRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	d := dao.New(db)
	return &testRepos{
		version:  dao.NewVersionRepository(d),
		change:   dao.NewChangeLogRepository(d),
		conflict: dao.NewConflictRepository(d),
	}
}

func newTestHistoryService(t *testing.T, applyContent ApplyContentFn) VersionHistoryService {
	t.Helper()
	repos := newTestRepos(t)
	return NewVersionHistoryService(repos.version, applyContent, zap.NewNop(), nil)
}

func newTestChangeLogService(t *testing.T) ChangeLogService {
	t.Helper()
	repos := newTestRepos(t)
	return NewChangeLogService(repos.change, zap.NewNop(), nil)
}

func newTestConflictService(t *testing.T) ConflictService {
	t.Helper()
	repos := newTestRepos(t)
	return NewConflictService(repos.conflict, zap.NewNop())
}
