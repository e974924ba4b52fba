// Package cache keeps short-lived copies of public MintMe payloads in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const assetsKey = "mintme:assets"

type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

func NewRedis(cfg Config) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Redis{client: client, ttl: cfg.TTL, keyPrefix: cfg.KeyPrefix}, nil
}

func (r *Redis) key(k string) string {
	if r.keyPrefix == "" {
		return k
	}
	return r.keyPrefix + ":" + k
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Assets returns the cached asset list. ok is false on a cache miss.
func (r *Redis) Assets(ctx context.Context) (body []byte, ok bool, err error) {
	body, err = r.client.Get(ctx, r.key(assetsKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get assets: %w", err)
	}
	return body, true, nil
}

func (r *Redis) StoreAssets(ctx context.Context, body []byte) error {
	if err := r.client.Set(ctx, r.key(assetsKey), body, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set assets: %w", err)
	}
	return nil
}

func (r *Redis) InvalidateAssets(ctx context.Context) error {
	return r.client.Del(ctx, r.key(assetsKey)).Err()
}
