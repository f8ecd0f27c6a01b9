package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tippspiel/tippspiel-api/internal/config"
)

// OpenRedis connects to redis when an address is configured. Redis is
// optional; a nil client means standings are always computed from the
// database.
func OpenRedis(conf *config.RedisConfig) (*redis.Client, error) {
	if conf == nil || conf.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return client, nil
}
