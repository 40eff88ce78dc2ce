package model

import (
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "VersionSnapshot":
		return db.AutoMigrate(VersionSnapshot{})

	case "ChangeLog":
		return db.AutoMigrate(ChangeLog{})

	case "SyncConflict":
		return db.AutoMigrate(SyncConflict{})
	}
	return nil
}

// AutoMigrateAll 迁移全部数据表
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		VersionSnapshot{},
		ChangeLog{},
		SyncConflict{},
	)
}
