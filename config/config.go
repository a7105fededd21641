// Package config holds the report generator settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neehar-mavuduru/benchreport/loader"
)

// ErrResultsDirMissing is returned when the results directory does not exist.
var ErrResultsDirMissing = errors.New("results directory does not exist")

// Config holds the configuration for one report run
type Config struct {
	ResultsDir string `yaml:"-"`

	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	Report ReportConfig `yaml:"report"`

	// Theme overrides palette entries by name ("bg", "active", ...) with
	// hex colors.
	Theme map[string]string `yaml:"theme"`

	GCSUploadConfig *GCSUploadConfig `yaml:"gcs"` // Optional: publish artifacts to GCS
}

// ClientConfig describes the per-worker counter files
type ClientConfig struct {
	Patterns          []string `yaml:"patterns"`           // File globs (default: *_data.csv, *_data.csv.zst)
	WorkerDirGlob     string   `yaml:"worker_dir_glob"`    // Worker subdirectory glob (default: *)
	CumulativeColumns []string `yaml:"cumulative_columns"` // Counters that get a rate column (default: tx_pixels)
}

// ServerConfig describes the server metrics file
type ServerConfig struct {
	FileNames []string `yaml:"file_names"` // Tried in order (default: server_metrics.csv, server_metrics.csv.zst)
	Dir       string   `yaml:"dir"`        // Nested location (default: server)
}

// ReportConfig controls figure layout and output
type ReportConfig struct {
	DPI              int     `yaml:"dpi"`                // Raster resolution (default: 300)
	SteadyStateStart float64 `yaml:"steady_state_start"` // Fraction of rows treated as ramp-up (default: 0.4)
	SummaryWidth     float64 `yaml:"summary_width"`      // Summary column share of figure width (default: 0.15)

	ServerSize FigureSize `yaml:"server_size"` // Inches (default: 18x11)
	ClientSize FigureSize `yaml:"client_size"` // Inches (default: 18x5)

	ServerBaseName string `yaml:"server_base_name"` // default: benchmark_server_report
	ClientBaseName string `yaml:"client_base_name"` // default: benchmark_client_report

	ServerTitle string `yaml:"server_title"`
	ClientTitle string `yaml:"client_title"`
}

// FigureSize is a figure's width and height in inches
type FigureSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GCSUploadConfig holds configuration for publishing artifacts to GCS
type GCSUploadConfig struct {
	Bucket       string        `yaml:"bucket"`         // GCS bucket name (required)
	ObjectPrefix string        `yaml:"object_prefix"`  // Object prefix (e.g., "bench/run-42/")
	MaxRetries   int           `yaml:"max_retries"`    // Max retry attempts (default: 3)
	RetryDelay   time.Duration `yaml:"retry_delay"`    // Delay between retries (default: 5s)
	Timeout      time.Duration `yaml:"timeout"`        // Per-object upload timeout (default: 2m)
	GRPCPoolSize int           `yaml:"grpc_pool_size"` // Connection pool size (default: 4)
}

const (
	defaultDPI              = 300
	defaultSteadyStateStart = 0.4
	defaultSummaryWidth     = 0.15

	defaultServerBaseName = "benchmark_server_report"
	defaultClientBaseName = "benchmark_client_report"
	defaultServerTitle    = "Canvas Server — Benchmark Report"
	defaultClientTitle    = "Canvas Client — Benchmark Report"
)

var (
	defaultServerSize = FigureSize{Width: 18, Height: 11}
	defaultClientSize = FigureSize{Width: 18, Height: 5}
)

// DefaultConfig returns a configuration with baseline defaults
func DefaultConfig(resultsDir string) Config {
	opts := loader.DefaultOptions()
	return Config{
		ResultsDir: resultsDir,
		Client: ClientConfig{
			Patterns:          opts.ClientPatterns,
			WorkerDirGlob:     opts.WorkerDirGlob,
			CumulativeColumns: opts.Cumulative,
		},
		Server: ServerConfig{
			FileNames: opts.ServerFileNames,
			Dir:       opts.ServerDir,
		},
		Report: ReportConfig{
			DPI:              defaultDPI,
			SteadyStateStart: defaultSteadyStateStart,
			SummaryWidth:     defaultSummaryWidth,
			ServerSize:       defaultServerSize,
			ClientSize:       defaultClientSize,
			ServerBaseName:   defaultServerBaseName,
			ClientBaseName:   defaultClientBaseName,
			ServerTitle:      defaultServerTitle,
			ClientTitle:      defaultClientTitle,
		},
		GCSUploadConfig: nil, // Optional
	}
}

// DefaultGCSUploadConfig returns a GCS upload configuration with defaults
func DefaultGCSUploadConfig(bucket string) GCSUploadConfig {
	return GCSUploadConfig{
		Bucket:       bucket,
		ObjectPrefix: "",
		MaxRetries:   3,
		RetryDelay:   5 * time.Second,
		Timeout:      2 * time.Minute,
		GRPCPoolSize: 4,
	}
}

// Load returns the defaults for resultsDir overlaid with the YAML file at
// path. An empty path skips the file. The result is not validated.
func Load(path, resultsDir string) (Config, error) {
	cfg := DefaultConfig(resultsDir)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ResultsDir = resultsDir
	return cfg, nil
}

// Validate checks if the configuration is valid and applies defaults where needed
func (c *Config) Validate() error {
	if c.ResultsDir == "" {
		return fmt.Errorf("ResultsDir is required")
	}
	info, err := os.Stat(c.ResultsDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrResultsDirMissing, c.ResultsDir)
	}

	if len(c.Client.Patterns) == 0 {
		c.Client.Patterns = loader.DefaultOptions().ClientPatterns
	}
	for _, p := range c.Client.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid client pattern %q: %w", p, err)
		}
	}
	if c.Client.WorkerDirGlob != "" {
		if _, err := filepath.Match(c.Client.WorkerDirGlob, ""); err != nil {
			return fmt.Errorf("invalid worker directory glob %q: %w", c.Client.WorkerDirGlob, err)
		}
	}
	if len(c.Server.FileNames) == 0 {
		c.Server.FileNames = loader.DefaultOptions().ServerFileNames
	}

	if err := c.Report.validate(); err != nil {
		return err
	}

	// Validate GCS config if provided
	if c.GCSUploadConfig != nil {
		if err := c.GCSUploadConfig.Validate(); err != nil {
			return fmt.Errorf("GCSUploadConfig validation failed: %w", err)
		}
	}

	return nil
}

func (r *ReportConfig) validate() error {
	if r.DPI <= 0 {
		r.DPI = defaultDPI
	}
	if r.SteadyStateStart < 0 || r.SteadyStateStart >= 1 {
		return fmt.Errorf("steady_state_start must be in [0, 1), got %v", r.SteadyStateStart)
	}
	if r.SummaryWidth <= 0 {
		r.SummaryWidth = defaultSummaryWidth
	}
	if r.SummaryWidth >= 0.5 {
		return fmt.Errorf("summary_width must be below 0.5, got %v", r.SummaryWidth)
	}
	if r.ServerSize.Width <= 0 || r.ServerSize.Height <= 0 {
		r.ServerSize = defaultServerSize
	}
	if r.ClientSize.Width <= 0 || r.ClientSize.Height <= 0 {
		r.ClientSize = defaultClientSize
	}
	if r.ServerBaseName == "" {
		r.ServerBaseName = defaultServerBaseName
	}
	if r.ClientBaseName == "" {
		r.ClientBaseName = defaultClientBaseName
	}
	if r.ServerBaseName == r.ClientBaseName {
		return fmt.Errorf("server and client base names must differ, both are %q", r.ServerBaseName)
	}
	if r.ServerTitle == "" {
		r.ServerTitle = defaultServerTitle
	}
	if r.ClientTitle == "" {
		r.ClientTitle = defaultClientTitle
	}
	return nil
}

// Validate checks if the GCS upload configuration is valid
func (g *GCSUploadConfig) Validate() error {
	if g.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}

	if g.MaxRetries <= 0 {
		g.MaxRetries = 3
	}

	if g.RetryDelay <= 0 {
		g.RetryDelay = 5 * time.Second
	}

	if g.Timeout <= 0 {
		g.Timeout = 2 * time.Minute
	}

	if g.GRPCPoolSize <= 0 {
		g.GRPCPoolSize = 4
	}

	return nil
}

// LoaderOptions returns the discovery settings for the loader.
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{
		ClientPatterns:  c.Client.Patterns,
		WorkerDirGlob:   c.Client.WorkerDirGlob,
		ServerFileNames: c.Server.FileNames,
		ServerDir:       c.Server.Dir,
		Cumulative:      c.Client.CumulativeColumns,
	}
}
