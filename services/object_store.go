package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/utils"
)

// ObjectStore stores image bytes under a key
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps images on disk; they are served by the uploads route
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Dir returns the root directory of the store
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes data to disk under key
func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	return utils.SaveFile(s.dir, key, data)
}

// URL returns the uploads route path for key
func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	return utils.GetImageURL(key), nil
}

// Delete removes key from disk; a missing file is not an error
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	path, err := utils.SafeJoin(s.dir, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path resolves key to a file inside the store, or ErrImageNotFound
func (s *LocalStore) Path(key string) (string, error) {
	path, err := utils.SafeJoin(s.dir, key)
	if err != nil {
		return "", ErrImageNotFound
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrImageNotFound
	}
	return path, nil
}
