package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockObjectStore is an in-memory ObjectStore for testing
type MockObjectStore struct {
	files  map[string][]byte // map of key to file content
	mu     sync.RWMutex
	PutErr error // returned by Put when set
}

// NewMockObjectStore creates an empty mock store
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		files: make(map[string][]byte),
	}
}

// Put stores data in memory
func (m *MockObjectStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	if key == "" {
		return errors.New("empty key")
	}

	m.mu.Lock()
	m.files[key] = data
	m.mu.Unlock()

	return nil
}

// URL returns a fake presigned URL for a stored key
func (m *MockObjectStore) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.files[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock store: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.eu-central-1.amazonaws.com/%s?mock=true", key), nil
}

// Delete removes key from memory
func (m *MockObjectStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()

	return nil
}

// Files returns a copy of all stored files (for testing assertions)
func (m *MockObjectStore) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}

// Exists checks if a key exists in mock storage
func (m *MockObjectStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}
