package postgres

import (
	"context"
	"fmt"

	"godev-candidate-bot/internal/storage"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

const clientStateTable = "client_state"

// KV exposes the client_state table as a storage.Port.
func (s *Store) KV() storage.Port {
	return &kv{store: s}
}

type kv struct {
	store *Store
}

func (k *kv) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := k.store.sess.
		Select("value").
		From(clientStateTable).
		Where("key = ?", key).
		LoadOneContext(ctx, &value)

	if err == dbr.ErrNotFound {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		k.store.logger.Error("failed to get client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get client state: %w", err)
	}

	return []byte(value), nil
}

func (k *kv) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value      = EXCLUDED.value,
			updated_at = NOW()
	`

	_, err := k.store.sess.
		InsertBySql(query, key, string(value)).
		ExecContext(ctx)

	if err != nil {
		k.store.logger.Error("failed to set client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set client state: %w", err)
	}

	return nil
}

func (k *kv) Delete(ctx context.Context, key string) error {
	_, err := k.store.sess.
		DeleteFrom(clientStateTable).
		Where("key = ?", key).
		ExecContext(ctx)

	if err != nil {
		k.store.logger.Error("failed to delete client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("delete client state: %w", err)
	}

	return nil
}
