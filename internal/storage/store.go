package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock

// Store persists generated documents under a logical key and returns the
// public URL the key is served from. Saving the same key again overwrites
// the previous document.
type Store interface {
	Save(key string, data []byte) (string, error)
}

type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{dir: dir, baseURL: baseURL}
}

func (s *FileStore) Save(key string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure document dir: %w", err)
	}

	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write document %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}
