package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyDatasetName, "esg_dataset.csv"))
	require.NoError(t, store.Set(KeyNegativeRatio, 2))
	require.NoError(t, store.Set("sampling.strict", true))

	assert.Equal(t, "esg_dataset.csv", store.GetString(KeyDatasetName))
	assert.Equal(t, 2, store.GetInt(KeyNegativeRatio))
	assert.True(t, store.GetBool("sampling.strict"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeySamplingSeed, 7))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(7), reopened.SamplingSeed(42))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[sampling]\nnegative-ratio = 3\nseed = 99\n\n[storage]\nbackend = \"memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.NegativeRatio(1))
	assert.Equal(t, int64(99), store.SamplingSeed(42))
	assert.Equal(t, "memory", store.StorageBackend())
}

func TestConfigStore_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 1, store.NegativeRatio(1))
	assert.Equal(t, int64(42), store.SamplingSeed(42))
	assert.Equal(t, "sqlite", store.StorageBackend())
	assert.Empty(t, store.DatasetName())
	assert.Empty(t, store.DataDir())
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get(KeyDatasetName)
	assert.False(t, ok)
}
