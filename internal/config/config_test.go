package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvchat/internal/config"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "rest", cfg.Catalog.Type)
	assert.Equal(t, "CATALOG_API_KEY", cfg.Catalog.REST.APIKeyEnv)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.Equal(t, "./data", cfg.Download.Dir)
	assert.Equal(t, 4, cfg.Retriever.Workers)
	assert.Equal(t, "csvchat.log", cfg.Log.File)
}

func TestLoad_OverridesAndBackfill(t *testing.T) {
	raw := `
catalog:
  type: memory
  memory:
    manifest: ./catalog.yaml
llm:
  model: gpt-4o-mini
retriever:
  workers: 8
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Catalog.Type)
	require.NotNil(t, cfg.Catalog.Memory)
	assert.Equal(t, "./catalog.yaml", cfg.Catalog.Memory.Manifest)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 8, cfg.Retriever.Workers)
	// untouched sections still get defaults
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "./data", cfg.Download.Dir)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Download.Dir = "/tmp/downloads"
	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/downloads", loaded.Download.Dir)
}
