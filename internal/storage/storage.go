package storage

//go:generate mockgen -source=./storage.go -package=storagemocks -destination=mocks/port.mock.go Port

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("storage: key not found")

// Port is a small key/value store scoped to one client origin.
type Port interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type namespaced struct {
	port   Port
	prefix string
}

// Namespace prefixes every key with prefix + ":".
func Namespace(port Port, prefix string) Port {
	return &namespaced{port: port, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.port.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.port.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.port.Delete(ctx, n.prefix+key)
}

// ReadJSON decodes key into dest. Missing keys, backend failures and bad JSON
// all report false; callers treat them as "nothing stored".
func ReadJSON(ctx context.Context, logger *zap.Logger, port Port, key string, dest interface{}) bool {
	data, err := port.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Debug("storage read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Debug("stored value is not valid JSON", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// WriteJSON encodes v under key and reports whether it was stored.
func WriteJSON(ctx context.Context, logger *zap.Logger, port Port, key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Debug("failed to marshal value", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := port.Set(ctx, key, data); err != nil {
		logger.Debug("storage write failed", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// Remove deletes key, ignoring failures.
func Remove(ctx context.Context, logger *zap.Logger, port Port, key string) {
	if err := port.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Debug("storage delete failed", zap.String("key", key), zap.Error(err))
	}
}
