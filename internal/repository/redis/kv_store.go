package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/repository"
)

type kvStore struct {
	client *goredis.Client
}

// Open connects to the Redis server at url (redis://host:port/db) and checks it responds.
func Open(ctx context.Context, url string) (repository.KeyValueStore, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_redis")

	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := goredis.NewClient(opt)
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("connected to redis: addr=%s db=%d", opt.Addr, opt.DB)
	return NewKeyValueStore(client), nil
}

// NewKeyValueStore wraps an existing client.
func NewKeyValueStore(client *goredis.Client) repository.KeyValueStore {
	return &kvStore{client: client}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_redis").Error("failed to get key %s: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *kvStore) Close() error {
	return s.client.Close()
}
