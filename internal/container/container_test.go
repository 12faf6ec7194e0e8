package container

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"barstack/domain/core"
	"barstack/internal/config"
	apperrors "barstack/internal/errors"
	"barstack/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testConfig(manifest string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{ManifestPath: manifest, FetchTimeout: time.Second},
		Log:  config.LogConfig{Level: "ERROR"},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestLoadDatasetsFromManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raises1.csv"), []byte("name,pay,raise\na,10,20\nb,30,40\n"), 0o644))
	manifest := writeManifest(t, dir, `
defaults: { value_parser: number, sort: total_desc }
datasets:
  - label: Top staff
    source: { path: raises1.csv }
`)

	c, err := New(testConfig(manifest))
	require.NoError(t, err)
	require.NoError(t, c.LoadDatasets(context.Background()))
	assert.NoError(t, c.LoadErr)
	assert.Equal(t, []string{"Top staff"}, c.Registry.Keys())
	assert.Equal(t, "Top staff", c.Selector.Key())

	entry, err := c.Selector.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, entry.Data.Labels())
}

func TestLoadDatasetsRecordsFailure(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, `
datasets:
  - label: Remote
    source: { path: https://data.example/remote.csv }
`)
	c, err := New(testConfig(manifest))
	require.NoError(t, err)
	c.WithReader(testkit.NewFakeSourceReader().Fail("https://data.example/remote.csv", errors.New("timeout")))

	err = c.LoadDatasets(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, c.LoadErr)
	assert.ErrorIs(t, err, core.ErrFetch)
	assert.Equal(t, apperrors.CodeFetchError, apperrors.GetCode(err))
	assert.Nil(t, c.Selector)
}

func TestLoadDatasetsMissingManifest(t *testing.T) {
	c, err := New(testConfig(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, err)
	assert.Error(t, c.LoadDatasets(context.Background()))
	assert.Error(t, c.LoadErr)
}

func TestInitSSEAndShutdown(t *testing.T) {
	c, err := New(testConfig("datasets.yaml"))
	require.NoError(t, err)
	hub := c.InitSSE()
	assert.Same(t, hub, c.InitSSE())
	assert.NoError(t, c.Shutdown(context.Background()))
}
