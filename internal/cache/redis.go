// Package cache реализует хранилище выданных refresh-токенов на основе Redis.
//
// Токен числится выданным, пока его jti лежит в Redis; запись создаётся
// со сроком жизни refresh-токена, поэтому просроченные токены исчезают
// сами, а удаление записи означает отзыв.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/cabinconnect/internal/config"
)

// TokenStore инкапсулирует клиент Redis.
type TokenStore struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*TokenStore, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &TokenStore{Db: db}, nil
}

func refreshKey(jti string) string {
	return fmt.Sprintf("refresh:%s", jti)
}

// Save регистрирует выданный refresh-токен на срок его жизни.
func (c *TokenStore) Save(ctx context.Context, jti, userUID string, ttl time.Duration) error {
	return c.Db.Set(ctx, refreshKey(jti), userUID, ttl).Err()
}

// Exists сообщает, числится ли refresh-токен выданным.
func (c *TokenStore) Exists(ctx context.Context, jti string) (bool, error) {
	const op = "cache.Exists"
	_, err := c.Db.Get(ctx, refreshKey(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Revoke отзывает refresh-токен.
func (c *TokenStore) Revoke(ctx context.Context, jti string) error {
	return c.Db.Del(ctx, refreshKey(jti)).Err()
}
