package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"godev-candidate-bot/internal/storage"

	"go.uber.org/zap"
)

const stateFile = "state.json"

// Store keeps every key in a single JSON document under dir.
type Store struct {
	mu       sync.Mutex
	filePath string
	data     map[string]string
	logger   *zap.Logger
}

// New creates dir if needed and loads the existing document. A corrupt
// document is logged and replaced on the next write.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	s := &Store{
		filePath: filepath.Join(dir, stateFile),
		data:     make(map[string]string),
		logger:   logger,
	}
	s.load()

	return s, nil
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read state file", zap.String("path", s.filePath), zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.logger.Warn("failed to parse state file", zap.String("path", s.filePath), zap.Error(err))
		s.data = make(map[string]string)
		return
	}

	// a "null" document decodes without error into a nil map
	if s.data == nil {
		s.data = make(map[string]string)
	}

	s.logger.Info("state loaded", zap.Int("keys", len(s.data)))
}

// save writes to a temp file and renames it over the document.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}

	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return []byte(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	s.data[key] = string(value)

	if err := s.save(); err != nil {
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	if !existed {
		return nil
	}
	delete(s.data, key)

	if err := s.save(); err != nil {
		s.data[key] = prev
		return err
	}

	return nil
}
