package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (s *RedisStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get failed: %v", ErrUnavailable, err)
	}

	return decodeCart(data)
}

func (s *RedisStore) Put(ctx context.Context, cartID string, cart *domain.Cart, ttl time.Duration) error {
	data, err := encodeCart(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, cartKey(cartID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set failed: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, cartID string) (bool, error) {
	removed, err := s.client.Del(ctx, cartKey(cartID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis del failed: %v", ErrUnavailable, err)
	}
	return removed > 0, nil
}

// Rename uses the RENAME primitive, so the transfer is atomic and any record
// already at newID is overwritten. Redis reports a missing source only as a
// generic error string.
func (s *RedisStore) Rename(ctx context.Context, oldID, newID string) (bool, error) {
	err := s.client.Rename(ctx, cartKey(oldID), cartKey(newID)).Err()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return false, nil
		}
		return false, fmt.Errorf("%w: redis rename failed: %v", ErrUnavailable, err)
	}
	return true, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping failed: %v", ErrUnavailable, err)
	}
	return nil
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}
