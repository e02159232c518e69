package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
)

// DefaultMistakesKey is the key the collection is stored under.
const DefaultMistakesKey = "edatlas_mistakes"

type mistakeRepository struct {
	kv  KeyValueStore
	key string
}

// NewMistakeRepository stores the mistake collection as one JSON array under key.
func NewMistakeRepository(kv KeyValueStore, key string) MistakeRepository {
	if key == "" {
		key = DefaultMistakesKey
	}
	return &mistakeRepository{kv: kv, key: key}
}

func (r *mistakeRepository) Load(ctx context.Context) ([]models.Mistake, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")
	log.Debug("loading mistakes: key=%s", r.key)

	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		log.Error("failed to read mistakes: %v", err)
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}
	if !found || len(raw) == 0 {
		log.Debug("no stored mistakes, starting empty")
		return []models.Mistake{}, nil
	}

	var mistakes []models.Mistake
	if err := json.Unmarshal(raw, &mistakes); err != nil {
		log.Error("failed to decode mistakes: %v", err)
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	if mistakes == nil {
		mistakes = []models.Mistake{}
	}
	log.Debug("loaded %d mistakes", len(mistakes))
	return mistakes, nil
}

func (r *mistakeRepository) Save(ctx context.Context, mistakes []models.Mistake) error {
	log := logger.FromContext(ctx).WithPrefix("mistake_repo")

	if mistakes == nil {
		mistakes = []models.Mistake{}
	}
	raw, err := json.Marshal(mistakes)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, raw); err != nil {
		log.Error("failed to write mistakes: %v", err)
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	log.Debug("saved %d mistakes (%d bytes)", len(mistakes), len(raw))
	return nil
}

func (r *mistakeRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		logger.FromContext(ctx).WithPrefix("mistake_repo").Error("failed to clear mistakes: %v", err)
		return fmt.Errorf("delete %s: %w", r.key, err)
	}
	return nil
}
