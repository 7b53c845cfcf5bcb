package data

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/database"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	pkgredis "github.com/mycosoft/unified-search/internal/pkg/redis"
)

// Data holds the optional backing stores. A nil field means the store is
// disabled in configuration.
type Data struct {
	DB     *database.DB
	Redis  *pkgredis.Client
	Logger *logger.Logger
}

func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	d := &Data{Logger: log}

	if config.Database.Enabled {
		db, err := initDB(config, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init database: %w", err)
		}
		d.DB = db
	}

	if config.Redis.Enabled {
		client, err := initRedis(config, log)
		if err != nil {
			d.close()
			return nil, nil, fmt.Errorf("failed to init redis: %w", err)
		}
		d.Redis = client
	}

	log.Info("data layer initialized",
		zap.Bool("database", d.DB != nil),
		zap.Bool("redis", d.Redis != nil),
	)
	return d, d.close, nil
}

func (d *Data) close() {
	d.Logger.Info("cleaning up data resources")
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

func initDB(config *conf.Config, log *logger.Logger) (*database.DB, error) {
	c := config.Database
	cfg := database.DefaultConfig()
	cfg.Host = c.Host
	if c.Port > 0 {
		cfg.Port = c.Port
	}
	if c.User != "" {
		cfg.User = c.User
	}
	cfg.Password = c.Password
	if c.DBName != "" {
		cfg.DBName = c.DBName
	}
	if c.SSLMode != "" {
		cfg.SSLMode = c.SSLMode
	}
	if c.MaxOpenConns > 0 {
		cfg.MaxOpenConns = c.MaxOpenConns
	}
	if c.MaxIdleConns > 0 {
		cfg.MaxIdleConns = c.MaxIdleConns
	}
	if c.ConnMaxLifetime > 0 {
		cfg.ConnMaxLifetime = c.ConnMaxLifetime
	}
	return database.New(cfg, log)
}

func initRedis(config *conf.Config, log *logger.Logger) (*pkgredis.Client, error) {
	cfg := pkgredis.DefaultConfig()
	cfg.Addr = config.Redis.Addr
	cfg.Password = config.Redis.Password
	cfg.DB = config.Redis.DB
	if config.Redis.PoolSize > 0 {
		cfg.PoolSize = config.Redis.PoolSize
	}
	return pkgredis.New(cfg, log)
}
