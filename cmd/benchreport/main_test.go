package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/benchreport/config"
	"github.com/neehar-mavuduru/benchreport/report"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitNoData, exitCode(fmt.Errorf("wrapped: %w", report.ErrNoData)))
	assert.Equal(t, exitStructural, exitCode(config.ErrResultsDirMissing))
	assert.Equal(t, exitStructural, exitCode(errors.New("boom")))
}

func TestLoadConfig(t *testing.T) {
	t.Run("FlagsOverrideFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.yaml")
		require.NoError(t, os.WriteFile(path, []byte("report:\n  dpi: 150\ngcs:\n  bucket: from-file\n  max_retries: 7\n"), 0o644))

		cfg, err := loadConfig(dir, options{configPath: path, dpi: 72, gcsBucket: "from-flag", gcsPrefix: "run/"})
		require.NoError(t, err)
		assert.Equal(t, 72, cfg.Report.DPI)
		require.NotNil(t, cfg.GCSUploadConfig)
		assert.Equal(t, "from-flag", cfg.GCSUploadConfig.Bucket)
		assert.Equal(t, "run/", cfg.GCSUploadConfig.ObjectPrefix)
		assert.Equal(t, 7, cfg.GCSUploadConfig.MaxRetries)
	})

	t.Run("NoUploadByDefault", func(t *testing.T) {
		cfg, err := loadConfig(t.TempDir(), options{gcsPrefix: "ignored/"})
		require.NoError(t, err)
		assert.Nil(t, cfg.GCSUploadConfig)
	})
}

func TestExecute(t *testing.T) {
	t.Run("NoData", func(t *testing.T) {
		assert.Equal(t, exitNoData, execute([]string{t.TempDir()}))
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		assert.Equal(t, exitStructural, execute([]string{filepath.Join(t.TempDir(), "missing")}))
	})

	t.Run("MissingArgument", func(t *testing.T) {
		assert.Equal(t, exitStructural, execute(nil))
	})

	t.Run("WritesClientReport", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "w_data.csv"),
			[]byte("timestamp,active,tx_pps\n1,1,10\n2,2,20\n"), 0o644))

		assert.Equal(t, exitOK, execute([]string{"--dpi", "20", dir}))
		assert.FileExists(t, filepath.Join(dir, "benchmark_client_report.png"))
		assert.FileExists(t, filepath.Join(dir, "benchmark_client_report.svg"))
	})
}
