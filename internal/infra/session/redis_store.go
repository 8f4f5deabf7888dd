package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// セッションIDごとにカートをJSONで保存する。
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// 無いキーは空のカート
func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (model.CartSession, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CartSession{}, nil
	}
	if err != nil {
		return model.CartSession{}, fmt.Errorf("redis get failed: %w", err)
	}

	var cart model.CartSession
	if err := json.Unmarshal(data, &cart); err != nil {
		return model.CartSession{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

// 保存のたびに有効期限を延ばす
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart model.CartSession) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
