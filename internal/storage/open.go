package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/config"
	"github.com/hackgods/clinic-calendar/internal/db"
	redisclient "github.com/hackgods/clinic-calendar/internal/redis"
)

// Open connects the KV backend named by cfg.StorageBackend. The returned
// close function releases its connections and is never nil.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (KV, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, appointments are lost on restart")
		return NewMemoryKV(), func() {}, nil

	case config.BackendFile:
		kv, err := NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file storage", zap.String("dir", cfg.DataDir))
		return kv, func() {}, nil

	case config.BackendRedis:
		rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection: %w", err)
		}
		log.Info("using redis storage", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return NewRedisKV(rdb, cfg.RedisKeyPrefix), func() {
			if err := rdb.Close(); err != nil {
				log.Warn("error closing redis", zap.Error(err))
			}
		}, nil

	case config.BackendPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection: %w", err)
		}
		kv := NewPgKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("using postgres storage")
		return kv, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
