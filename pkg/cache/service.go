package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cinephoria/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// Cache-aside helper: dest is filled from cache or from fetcher, whose result is then cached
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func(ctx context.Context) (interface{}, error), dest interface{}) error

	Ping(ctx context.Context) error
}

type service struct {
	client *redis.Client
	log    *logger.Logger
}

// NewService returns a Redis backed cache, or a pass-through cache when client is nil.
func NewService(client *redis.Client) Service {
	if client == nil {
		return noopService{}
	}
	return &service{client: client, log: logger.GetDefault()}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (s *service) DeletePattern(ctx context.Context, pattern string) error {
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}

	return s.Delete(ctx, keys...)
}

func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func(ctx context.Context) (interface{}, error), dest interface{}) error {
	err := s.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Redis trouble must not fail catalog reads
		s.log.WarnContext(ctx, "cache get failed, falling back to store", "key", key, "error", err)
	}

	data, err := fetcher(ctx)
	if err != nil {
		return err
	}

	if setErr := s.Set(ctx, key, data, ttl); setErr != nil {
		s.log.WarnContext(ctx, "cache set failed", "key", key, "error", setErr)
	}

	return copyInto(data, dest)
}

func (s *service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// noopService always misses; used when Redis is disabled
type noopService struct{}

func (noopService) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (noopService) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopService) Delete(context.Context, ...string) error { return nil }

func (noopService) DeletePattern(context.Context, string) error { return nil }

func (noopService) GetOrSet(ctx context.Context, _ string, _ time.Duration, fetcher func(ctx context.Context) (interface{}, error), dest interface{}) error {
	data, err := fetcher(ctx)
	if err != nil {
		return err
	}
	return copyInto(data, dest)
}

func (noopService) Ping(context.Context) error { return nil }

// copyInto moves a fetched value into dest through JSON so both paths decode identically
func copyInto(data, dest interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal fetched data error: %w", err)
	}
	return json.Unmarshal(raw, dest)
}
