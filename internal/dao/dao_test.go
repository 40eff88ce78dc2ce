package dao

import (
	"testing"

	"github.com/mekstation/vault-sync-service/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDao 基于内存 SQLite 创建测试用 Dao
func newTestDao(t *testing.T) *Dao {
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

	return New(db)
}
