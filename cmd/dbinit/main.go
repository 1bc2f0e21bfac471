package main

import (
	"Snapshare/internal/api/config"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		log.Error("Fatal error", "err", err)
		os.Exit(1)
	}
}

// run 负责全部初始化流程，返回前释放连接，os.Exit 只在 main 中调用
func run(configDirs ...string) error {
	// 加载配置
	if err := config.LoadConfig(configDirs...); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTraceID(ctx)

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.WarnContext(ctx, "failed to close database", "err", cerr)
		}
	}()

	// 应用 schema
	if err = database.ApplySchema(ctx, db); err != nil {
		return err
	}
	log.InfoContext(ctx, "Schema applied successfully.", "driver", dbCfg.Driver)
	return nil
}
