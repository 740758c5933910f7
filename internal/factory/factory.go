package factory

import (
	"fmt"

	"github.com/anime-shed/spatialplot-go/internal/config"
	"github.com/anime-shed/spatialplot-go/internal/processor"
	"github.com/anime-shed/spatialplot-go/internal/storage"
	"github.com/anime-shed/spatialplot-go/internal/strategy"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// ProcessorFactory creates processing components
type ProcessorFactory interface {
	CreateProcessor() *processor.Processor
	CreateStrategy(mode string) (strategy.ChannelStrategy, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
	// Available lists the storage types the configuration enables.
	Available() []StorageType
}

type processorFactory struct {
	maxWorkers int
}

// NewProcessorFactory creates a new processor factory
func NewProcessorFactory(maxWorkers int) ProcessorFactory {
	return &processorFactory{maxWorkers: maxWorkers}
}

func (f *processorFactory) CreateProcessor() *processor.Processor {
	return processor.NewProcessor(f.maxWorkers)
}

func (f *processorFactory) CreateStrategy(mode string) (strategy.ChannelStrategy, error) {
	return strategy.ForName(mode)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.cfg.MaxImageBytes), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage is not configured")
		}
		return storage.NewAzureStorage(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.MaxImageBytes)
	case LocalStorage:
		if !f.cfg.LocalEnabled() {
			return nil, fmt.Errorf("local storage is not configured")
		}
		return storage.NewLocalFileFetcher(f.cfg.LocalRoot, f.cfg.MaxImageBytes)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

func (f *storageFactory) Available() []StorageType {
	types := []StorageType{HTTPStorage}
	if f.cfg.AzureEnabled() {
		types = append(types, AzureStorage)
	}
	if f.cfg.LocalEnabled() {
		types = append(types, LocalStorage)
	}
	return types
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	ProcessorFactory ProcessorFactory
	StorageFactory   StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		ProcessorFactory: NewProcessorFactory(cfg.MaxWorkers),
		StorageFactory:   NewStorageFactory(cfg),
	}
}
