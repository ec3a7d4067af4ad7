package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv/badgerkv"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/redis"
)

// openStore opens the snapshot store named by store.driver. The redis client
// is returned separately when connected so the rate limiter can share it.
func openStore(cfg *config.Config, logger *zap.Logger) (kv.Store, *redis.Client, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory snapshot store, review state is lost on restart")
		return kv.NewMemory(), connectRedis(cfg, logger), nil

	case config.StoreDriverBadger:
		store, err := badgerkv.Open(cfg.Store.BadgerPath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return store, connectRedis(cfg, logger), nil

	default:
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return rdb, rdb, nil
	}
}

// connectRedis is best effort; without Redis rate limiting stays per process.
func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting falls back to in-process limiters", zap.Error(err))
		return nil
	}
	return rdb
}
