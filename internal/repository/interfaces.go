package repository

import (
	"context"

	"github.com/edatlas/edatlas/internal/models"
)

// KeyValueStore is the local key-value storage the mistake collection lives in.
type KeyValueStore interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// MistakeRepository loads and saves the whole mistake collection at once.
type MistakeRepository interface {
	Load(ctx context.Context) ([]models.Mistake, error)
	Save(ctx context.Context, mistakes []models.Mistake) error
	// Clear removes the stored collection entirely.
	Clear(ctx context.Context) error
}
