package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const kvTable = "kv_store"

type kvStore struct {
	db *sql.DB
}

// NewKeyValueStore creates a KeyValueStore on the kv_store table.
func NewKeyValueStore(db *sql.DB) repository.KeyValueStore {
	return &kvStore{db: db}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_sqlite")

	query, args, err := sqlBuilder.
		Select("value").
		From(kvTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_sqlite")

	query, args, err := sqlBuilder.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	log.Debug("key written: %s (%d bytes)", key, len(value))
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.
		Delete(kvTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *kvStore) Close() error {
	return s.db.Close()
}
