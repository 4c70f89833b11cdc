// Package cache
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Adapter string

const (
	RedisAdapter Adapter = "redis"
)

type Config struct {
	Adapter  Adapter
	URL      string
	DB       int
	Password string

	IsFlush bool

	DefaultExpiredTime time.Duration

	Logger *zap.Logger
}

// Client holds the hot slice of the read-model. Everything here can be
// rebuilt from db or ledger at any time.
type Client interface {
	IToken
	IAuction
	IStatus
}

func New(cfg Config) (Client, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	}
	return nil, errors.New("invalid cache config")
}

func newRedis(cfg Config) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if cfg.IsFlush {
		msg, err := redisClient.FlushAll(context.Background()).Result()
		if err != nil || msg != "OK" {
			return nil, err
		}
	}

	expiredTime := cfg.DefaultExpiredTime
	if expiredTime <= 0 {
		expiredTime = 12 * time.Hour
	}

	logger := cfg.Logger.With(zap.String("cache", "redis"))
	client := &Redis{
		client:      redisClient,
		expiredTime: expiredTime,
		logger:      logger,
	}
	return client, nil
}

type Redis struct {
	client      *redis.Client
	expiredTime time.Duration
	logger      *zap.Logger
}
