package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/PeterTHA/bo-resource-management/internal/approval"
	"github.com/PeterTHA/bo-resource-management/internal/config"
	"github.com/PeterTHA/bo-resource-management/internal/messaging/kafka"
	"github.com/PeterTHA/bo-resource-management/internal/metrics"
	"github.com/PeterTHA/bo-resource-management/internal/request"
	"github.com/PeterTHA/bo-resource-management/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of a process.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

func connectDatabase(cfg config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	return &Infra{GormDB: gormDB, SQLDB: sqlDB}, nil
}

// Migrate creates the workflow tables and the outbox.
func Migrate(ctx context.Context, gormDB *gorm.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(&request.Request{}, &approval.Event{}); err != nil {
		return err
	}
	return gormDB.WithContext(ctx).Exec(kafka.Schema).Error
}

// BuildApp connects infrastructure and registers every route on router. The
// returned cleanup releases connections and background collectors.
func BuildApp(cfg config.Config, router *gin.Engine) (func(), error) {
	logger := zap.L().Named("app")

	infra, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		if err := Migrate(context.Background(), infra.GormDB); err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("database migrated")
	}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxRetries)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, idempotency keys are ignored")
	}

	if err := registerModules(router, cfg, infra); err != nil {
		infra.Close()
		return nil, err
	}

	collector := metrics.NewCollector(infra.GormDB, 15*time.Second)
	collector.Start(context.Background())

	return func() {
		collector.Stop()
		infra.Close()
	}, nil
}
