package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write content to config.yaml in a temp dir
func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	path := writeConfigFile(t, `crawl:
  board: "Stock"
  pages: 5
  source: "feed"
  timeout: "15s"
  min_delay: "1s"
  max_delay: "2s"
storage:
  driver: "mysql"
  dsn: "user:pass@tcp(localhost:3306)/ptt"
export:
  path: "/tmp/stock.xlsx"
log:
  file: "/tmp/stock.log"
  level: "debug"
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Stock", cfg.Crawl.Board)
	assert.Equal(t, 5, cfg.Crawl.Pages)
	assert.Equal(t, "feed", cfg.Crawl.Source)
	assert.Equal(t, "15s", cfg.Crawl.Timeout)
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/ptt", cfg.Storage.DSN)
	assert.Equal(t, "/tmp/stock.xlsx", cfg.Export.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, `crawl:
  board: "Gossiping"
storage:
  - this is invalid yaml because storage should be an object not a list
`)

	cfg, err := LoadConfigFile(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFile_PartialConfig(t *testing.T) {
	path := writeConfigFile(t, `crawl:
  pages: 10
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 10, cfg.Crawl.Pages)
	assert.Equal(t, "", cfg.Crawl.Board, "Unspecified board should be empty string")
	assert.Equal(t, "", cfg.Storage.DSN, "Unspecified DSN should be empty string")
}

func TestDefaultConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".pttcrawl", "config.yaml"), path)
}
