package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFileOverridesDefaultsPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("ChainURI: wss://example.test\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "wss://example.test", cfg.ChainURI)
	require.Equal(t, Default().RequestTimeout, cfg.RequestTimeout)
}

func TestLoadFileRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("NotAField: 1\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("ChainURI: \"\"\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/config.yml")
	require.Error(t, err)
}
