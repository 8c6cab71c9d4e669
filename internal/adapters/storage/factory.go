package storage

import (
	"fmt"
	"strings"
)

// SourceType represents the type of source implementation
type SourceType string

const (
	SourceTypeLocal  SourceType = "local"
	SourceTypeMemory SourceType = "memory"
)

// Factory creates Source instances based on configuration
type Factory struct {
	retryConfig *RetryConfig
}

// NewFactory creates a new source factory. A nil retry config disables retries.
func NewFactory(retryConfig *RetryConfig) *Factory {
	return &Factory{
		retryConfig: retryConfig,
	}
}

// Create creates a Source instance based on the provided configuration
func (f *Factory) Create(config *SourceConfig) (Source, error) {
	if config == nil {
		return nil, fmt.Errorf("source config is required")
	}

	var (
		source Source
		err    error
	)

	switch SourceType(strings.ToLower(config.Type)) {
	case SourceTypeLocal, "":
		source, err = f.createLocalSource(config)
	case SourceTypeMemory:
		source = NewMemorySource()
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", config.Type, err)
	}

	if f.retryConfig != nil {
		source = NewRetryableSource(source, f.retryConfig)
	}

	return source, nil
}

func (f *Factory) createLocalSource(config *SourceConfig) (Source, error) {
	basePath := config.BasePath
	if basePath == "" {
		basePath = "./data/json"
	}
	return NewLocalSource(basePath)
}

// DefaultFactory returns a factory with default retry configuration
func DefaultFactory() *Factory {
	return NewFactory(DefaultRetryConfig())
}

// CreateFromConfig is a convenience function to create a source from config
func CreateFromConfig(config *SourceConfig) (Source, error) {
	return DefaultFactory().Create(config)
}
