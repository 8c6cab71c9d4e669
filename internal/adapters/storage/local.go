package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalSource reads export files from a directory on the local filesystem
type LocalSource struct {
	basePath string
}

// NewLocalSource creates a LocalSource rooted at basePath, which must be an existing directory
func NewLocalSource(basePath string) (*LocalSource, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("NewLocalSource", "", err, false)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("NewLocalSource", "", fmt.Errorf("%w: %s", ErrFileNotFound, absPath), false)
		}
		return nil, NewStorageError("NewLocalSource", "", err, false)
	}
	if !info.IsDir() {
		return nil, NewStorageError("NewLocalSource", "", fmt.Errorf("%s is not a directory", absPath), false)
	}

	return &LocalSource{basePath: absPath}, nil
}

// BasePath returns the absolute directory the source reads from
func (l *LocalSource) BasePath() string {
	return l.basePath
}

// Retrieve implements Source.Retrieve
func (l *LocalSource) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	data, err := os.ReadFile(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("Retrieve", key, err, true)
	}

	return data, nil
}

// Exists implements Source.Exists
func (l *LocalSource) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	_, err := os.Stat(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, NewStorageError("Exists", key, err, true)
	}

	return true, nil
}

// GetMetadata implements Source.GetMetadata
func (l *LocalSource) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err, false)
	}

	info, err := os.Stat(l.getFilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("GetMetadata", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("GetMetadata", key, err, true)
	}

	return &FileMetadata{
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

// Close implements Source.Close
func (l *LocalSource) Close() error {
	return nil
}

func (l *LocalSource) getFilePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}
