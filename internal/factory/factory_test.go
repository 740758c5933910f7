package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/spatialplot-go/internal/config"
	"github.com/anime-shed/spatialplot-go/internal/storage"
	"github.com/anime-shed/spatialplot-go/internal/strategy"
)

func TestStorageFactory(t *testing.T) {
	cfg := &config.Config{MaxImageBytes: 1024}
	f := NewStorageFactory(cfg)

	assert.Equal(t, []StorageType{HTTPStorage}, f.Available())

	fetcher, err := f.CreateStorage(HTTPStorage)
	require.NoError(t, err)
	assert.IsType(t, &storage.HTTPImageFetcher{}, fetcher)

	_, err = f.CreateStorage(AzureStorage)
	assert.Error(t, err)
	_, err = f.CreateStorage(LocalStorage)
	assert.Error(t, err)
	_, err = f.CreateStorage("s3")
	assert.Error(t, err)
}

func TestStorageFactory_Local(t *testing.T) {
	cfg := &config.Config{LocalRoot: t.TempDir()}
	f := NewStorageFactory(cfg)

	assert.Equal(t, []StorageType{HTTPStorage, LocalStorage}, f.Available())

	fetcher, err := f.CreateStorage(LocalStorage)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalFileFetcher{}, fetcher)
}

func TestStorageFactory_Azure(t *testing.T) {
	// Shared key credentials must be base64; the client is built without
	// contacting the account.
	cfg := &config.Config{AzureAccountName: "slides", AzureAccountKey: "c2VjcmV0"}
	f := NewStorageFactory(cfg)

	assert.Contains(t, f.Available(), AzureStorage)
	fetcher, err := f.CreateStorage(AzureStorage)
	require.NoError(t, err)
	assert.NotNil(t, fetcher)

	cfg.AzureAccountKey = "not base64!"
	_, err = f.CreateStorage(AzureStorage)
	assert.Error(t, err)
}

func TestProcessorFactory(t *testing.T) {
	cf := NewComponentFactory(&config.Config{MaxWorkers: 2})

	assert.NotNil(t, cf.ProcessorFactory.CreateProcessor())

	s, err := cf.ProcessorFactory.CreateStrategy("rgb")
	require.NoError(t, err)
	assert.Equal(t, strategy.RGB, s.GetStrategyName())

	_, err = cf.ProcessorFactory.CreateStrategy("hsv")
	assert.Error(t, err)
}
