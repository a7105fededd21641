package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/results")

	assert.Equal(t, "/tmp/results", cfg.ResultsDir)
	assert.Equal(t, 300, cfg.Report.DPI)
	assert.Equal(t, 0.4, cfg.Report.SteadyStateStart)
	assert.Equal(t, FigureSize{Width: 18, Height: 11}, cfg.Report.ServerSize)
	assert.Equal(t, FigureSize{Width: 18, Height: 5}, cfg.Report.ClientSize)
	assert.Equal(t, "benchmark_server_report", cfg.Report.ServerBaseName)
	assert.Equal(t, "benchmark_client_report", cfg.Report.ClientBaseName)
	assert.Equal(t, []string{"tx_pixels"}, cfg.Client.CumulativeColumns)
	assert.Nil(t, cfg.GCSUploadConfig)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("MissingResultsDir", func(t *testing.T) {
		cfg := DefaultConfig(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, cfg.Validate(), ErrResultsDirMissing)
	})

	t.Run("ResultsDirIsAFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		cfg := DefaultConfig(path)
		assert.ErrorIs(t, cfg.Validate(), ErrResultsDirMissing)
	})

	t.Run("EmptyResultsDir", func(t *testing.T) {
		cfg := DefaultConfig("")
		assert.Error(t, cfg.Validate())
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		cfg := Config{ResultsDir: t.TempDir()}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 300, cfg.Report.DPI)
		assert.Equal(t, 0.15, cfg.Report.SummaryWidth)
		assert.NotEmpty(t, cfg.Client.Patterns)
		assert.NotEmpty(t, cfg.Server.FileNames)
		assert.Equal(t, defaultServerTitle, cfg.Report.ServerTitle)
	})

	t.Run("RejectsSteadyStateStart", func(t *testing.T) {
		cfg := DefaultConfig(t.TempDir())
		cfg.Report.SteadyStateStart = 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("RejectsBadPattern", func(t *testing.T) {
		cfg := DefaultConfig(t.TempDir())
		cfg.Client.Patterns = []string{"[bad"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("RejectsSameBaseNames", func(t *testing.T) {
		cfg := DefaultConfig(t.TempDir())
		cfg.Report.ClientBaseName = cfg.Report.ServerBaseName
		assert.Error(t, cfg.Validate())
	})

	t.Run("GCSRequiresBucket", func(t *testing.T) {
		cfg := DefaultConfig(t.TempDir())
		cfg.GCSUploadConfig = &GCSUploadConfig{}
		assert.Error(t, cfg.Validate())

		cfg.GCSUploadConfig.Bucket = "bench-results"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 3, cfg.GCSUploadConfig.MaxRetries)
		assert.Equal(t, 5*time.Second, cfg.GCSUploadConfig.RetryDelay)
	})
}

func TestLoad(t *testing.T) {
	resultsDir := t.TempDir()

	t.Run("NoFile", func(t *testing.T) {
		cfg, err := Load("", resultsDir)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(resultsDir), cfg)
	})

	t.Run("OverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.yaml")
		content := `
report:
  dpi: 150
  client_title: Load Test
theme:
  bg: "#000000"
gcs:
  bucket: bench-results
  object_prefix: runs/42/
  retry_delay: 2s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path, resultsDir)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 150, cfg.Report.DPI)
		assert.Equal(t, "Load Test", cfg.Report.ClientTitle)
		assert.Equal(t, defaultServerTitle, cfg.Report.ServerTitle)
		assert.Equal(t, 0.4, cfg.Report.SteadyStateStart)
		assert.Equal(t, "#000000", cfg.Theme["bg"])
		require.NotNil(t, cfg.GCSUploadConfig)
		assert.Equal(t, "runs/42/", cfg.GCSUploadConfig.ObjectPrefix)
		assert.Equal(t, 2*time.Second, cfg.GCSUploadConfig.RetryDelay)
		assert.Equal(t, resultsDir, cfg.ResultsDir)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report: [1, 2"), 0o644))
		_, err := Load(path, resultsDir)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), resultsDir)
		assert.Error(t, err)
	})
}

func TestConfig_LoaderOptions(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.Client.WorkerDirGlob = "worker-*"
	opts := cfg.LoaderOptions()

	assert.Equal(t, "worker-*", opts.WorkerDirGlob)
	assert.Equal(t, cfg.Client.Patterns, opts.ClientPatterns)
	assert.Equal(t, "server", opts.ServerDir)
}
