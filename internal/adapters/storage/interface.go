package storage

import (
	"context"
	"strings"
	"time"
)

// FileMetadata represents metadata about a stored file
type FileMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Source provides read access to ledger export files.
// Keys are slash-separated paths relative to the source root, e.g. "merchants.json".
type Source interface {
	// Retrieve gets a file by its key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata returns metadata for a file
	GetMetadata(ctx context.Context, key string) (*FileMetadata, error)

	// Close cleans up any resources used by the source
	Close() error
}

// SourceConfig represents configuration for export sources
type SourceConfig struct {
	Type     string `json:"type" yaml:"type"`           // "local" or "memory"
	BasePath string `json:"base_path" yaml:"base_path"` // For local sources
}

// validateKey rejects empty keys and keys that escape the source root
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
