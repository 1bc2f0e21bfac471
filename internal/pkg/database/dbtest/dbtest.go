// Package dbtest opens throwaway SQLite databases with the full schema applied.
package dbtest

import (
	"Snapshare/internal/api/config"
	"Snapshare/internal/pkg/database"
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New 在 t.TempDir() 下创建数据库并应用 schema，测试结束自动关闭
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.DBConfig{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "snapshare.db"),
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: 5,
	}
	db, err := database.NewGormDB(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	db.Logger = db.Logger.LogMode(gormlogger.Silent)

	if err = database.ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
