// Command benchreport renders the server and client benchmark report figures
// for one results directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/neehar-mavuduru/benchreport/config"
	"github.com/neehar-mavuduru/benchreport/report"
	"github.com/neehar-mavuduru/benchreport/series"
	"github.com/neehar-mavuduru/benchreport/uploader"
)

// Exit codes.
const (
	exitOK         = 0
	exitStructural = 1
	exitNoData     = 2
)

var (
	okLine   = color.New(color.FgGreen)
	warnLine = color.New(color.FgYellow)
	failLine = color.New(color.FgRed)
	banner   = color.New(color.FgCyan, color.Bold)
)

type options struct {
	configPath string
	logLevel   string
	dpi        int
	gcsBucket  string
	gcsPrefix  string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	code := exitOK
	cmd := newRootCmd(&code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		// usage errors from cobra
		if code == exitOK {
			code = exitStructural
		}
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "benchreport <results-dir>",
		Short:         "Render benchmark report figures from counter CSV files",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), args[0], opts)
			*code = exitCode(err)
			if err != nil {
				if errors.Is(err, report.ErrNoData) {
					failLine.Printf("✗ No data found in %s\n", args[0])
				} else {
					failLine.Printf("✗ %v\n", err)
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.IntVar(&opts.dpi, "dpi", 0, "Raster resolution (overrides config)")
	flags.StringVar(&opts.gcsBucket, "gcs-bucket", "", "Publish artifacts to this GCS bucket")
	flags.StringVar(&opts.gcsPrefix, "gcs-prefix", "", "Object prefix for published artifacts")
	return cmd
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, report.ErrNoData):
		return exitNoData
	default:
		return exitStructural
	}
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func loadConfig(dir string, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, dir)
	if err != nil {
		return cfg, err
	}
	if opts.dpi > 0 {
		cfg.Report.DPI = opts.dpi
	}
	if opts.gcsBucket != "" {
		gcs := config.DefaultGCSUploadConfig(opts.gcsBucket)
		if cfg.GCSUploadConfig != nil {
			gcs = *cfg.GCSUploadConfig
			gcs.Bucket = opts.gcsBucket
		}
		cfg.GCSUploadConfig = &gcs
	}
	if opts.gcsPrefix != "" && cfg.GCSUploadConfig != nil {
		cfg.GCSUploadConfig.ObjectPrefix = opts.gcsPrefix
	}
	return cfg, nil
}

func run(ctx context.Context, dir string, opts options) error {
	if err := setupLogging(opts.logLevel); err != nil {
		return err
	}
	cfg, err := loadConfig(dir, opts)
	if err != nil {
		return err
	}

	abs, _ := filepath.Abs(dir)
	banner.Println("Benchmark Report")
	fmt.Printf("  Results: %s\n\n", abs)

	res, err := report.Generate(cfg)
	if res != nil && res.Loaded != nil {
		for _, skip := range res.Loaded.Skipped {
			warnLine.Printf("⚠ Skipped %s: %v\n", skip.Path, skip.Err)
		}
	}
	if res != nil {
		printFigures(res)
	}
	if err != nil {
		return err
	}

	if cfg.GCSUploadConfig != nil {
		publish(ctx, *cfg.GCSUploadConfig, res.Artifacts)
	}
	return nil
}

func printFigures(res *report.Result) {
	if res.Server == nil {
		warnLine.Println("⚠ No server metrics found, skipping server report")
	}
	if res.Client == nil {
		warnLine.Println("⚠ No client data found, skipping client report")
	}
	for _, fig := range res.Figures {
		name := "Client"
		if fig.Kind == series.Server {
			name = "Server"
		}
		for _, path := range fig.Artifacts {
			format := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
			okLine.Printf("✓ %s %s: %s\n", name, format, path)
		}
	}
}

// publish reports upload failures without touching the local artifacts.
func publish(ctx context.Context, cfg config.GCSUploadConfig, paths []string) {
	if ctx == nil {
		ctx = context.Background()
	}
	up, err := uploader.NewUploader(cfg)
	if err != nil {
		warnLine.Printf("⚠ GCS upload disabled: %v\n", err)
		return
	}
	defer up.Close()

	failed := up.UploadAll(ctx, paths)
	for _, path := range paths {
		if err, ok := failed[path]; ok {
			warnLine.Printf("⚠ Upload failed for %s: %v\n", path, err)
			continue
		}
		okLine.Printf("✓ Uploaded %s\n", up.URL(path))
	}
}
