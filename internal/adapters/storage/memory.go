package storage

import (
	"context"
	"sync"
	"time"
)

// MemorySource is an in-memory Source for tests. Failures can be queued to exercise
// retry handling.
type MemorySource struct {
	mu       sync.RWMutex
	files    map[string]memoryFile
	failures []error
}

type memoryFile struct {
	data         []byte
	lastModified time.Time
}

// NewMemorySource creates an empty MemorySource
func NewMemorySource() *MemorySource {
	return &MemorySource{
		files: make(map[string]memoryFile),
	}
}

// Put stores a copy of data under key
func (m *MemorySource) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[key] = memoryFile{
		data:         append([]byte(nil), data...),
		lastModified: time.Now(),
	}
}

// FailNext makes the next calls fail with the given errors, in order
func (m *MemorySource) FailNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, errs...)
}

func (m *MemorySource) nextFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.failures) == 0 {
		return nil
	}
	err := m.failures[0]
	m.failures = m.failures[1:]
	return err
}

// Retrieve implements Source.Retrieve
func (m *MemorySource) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}
	if err := m.nextFailure(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[key]
	if !exists {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
	}

	return append([]byte(nil), file.data...), nil
}

// Exists implements Source.Exists
func (m *MemorySource) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}
	if err := m.nextFailure(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.files[key]
	return exists, nil
}

// GetMetadata implements Source.GetMetadata
func (m *MemorySource) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err, false)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[key]
	if !exists {
		return nil, NewStorageError("GetMetadata", key, ErrFileNotFound, false)
	}

	return &FileMetadata{
		Key:          key,
		Size:         int64(len(file.data)),
		LastModified: file.lastModified,
	}, nil
}

// Close implements Source.Close
func (m *MemorySource) Close() error {
	return nil
}
