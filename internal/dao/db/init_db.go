// Package db 负责建立数据库连接、自动迁移表结构、初始化 Repository 层
// 支持 mysql（默认）/ postgres / sqlite 三种驱动
package db

import (
	"fmt"

	"gemstore_server/internal/config"
	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN 根据配置构建连接字符串，显式配置的 dsn 优先
func DSN(cfg *config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	switch cfg.Driver {
	case "", "mysql":
		// 格式：user:password@tcp(host:port)/database?params
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName), nil
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.DatabaseName, cfg.Port), nil
	case "sqlite":
		if cfg.DatabaseName == "" {
			return ":memory:", nil
		}
		return cfg.DatabaseName, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open 按驱动打开 GORM 连接
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dialector = mysqldriver.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	// sqlite 内存库每个连接都是独立的库，只保留一个连接
	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate 自动迁移表结构（不会删除已有字段或数据）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{}, // 用户表
		&model.Order{},    // 订单表
		&model.Message{},  // 订单留言表
	)
}

// Init 初始化数据库连接并返回 Repository 聚合
func Init(cfg *config.DatabaseConfig) (*repository.Repositories, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	zap.L().Info("database ready", zap.String("driver", cfg.Driver))
	return repository.NewRepositories(db), nil
}
