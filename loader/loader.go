// Package loader finds the client and server counter files of a benchmark
// run and parses them into series.Source values.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/neehar-mavuduru/benchreport/series"
)

var log = logrus.WithField("component", "loader")

// Options controls where counter files are looked for and which client
// columns are cumulative.
type Options struct {
	// ClientPatterns are file globs matched in the results directory and in
	// each worker subdirectory.
	ClientPatterns []string
	// WorkerDirGlob selects worker subdirectories. Empty disables nested
	// discovery.
	WorkerDirGlob string
	// ServerFileNames are tried in order, first at the top level and then
	// under ServerDir.
	ServerFileNames []string
	ServerDir       string
	// Cumulative lists client counters that get a derived rate column.
	Cumulative []string
}

// DefaultOptions returns the file layout written by the benchmark harness.
func DefaultOptions() Options {
	return Options{
		ClientPatterns:  []string{"*_data.csv", "*_data.csv" + ZstdSuffix},
		WorkerDirGlob:   "*",
		ServerFileNames: []string{"server_metrics.csv", "server_metrics.csv" + ZstdSuffix},
		ServerDir:       "server",
		Cumulative:      []string{series.ColTxPixels},
	}
}

// Result is everything that could be loaded from one results directory.
type Result struct {
	Clients []*series.Source
	Server  *series.Source
	Skipped []*SkipError
}

// Empty reports whether no usable source was found.
func (r *Result) Empty() bool {
	return len(r.Clients) == 0 && r.Server == nil
}

// DiscoverClients returns the client counter files under dir, sorted and
// without duplicates. Files inside the server subdirectory are ignored.
func DiscoverClients(dir string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(pattern string) error {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid client pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if seen[m] || !isRegularFile(m) {
				continue
			}
			if opts.ServerDir != "" && filepath.Base(filepath.Dir(m)) == opts.ServerDir && filepath.Dir(m) != filepath.Clean(dir) {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
		return nil
	}

	for _, pattern := range opts.ClientPatterns {
		if err := add(filepath.Join(dir, pattern)); err != nil {
			return nil, err
		}
		if opts.WorkerDirGlob != "" {
			if err := add(filepath.Join(dir, opts.WorkerDirGlob, pattern)); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// DiscoverServer returns the existing server metrics candidates under dir in
// the order they should be tried.
func DiscoverServer(dir string, opts Options) []string {
	var candidates []string
	for _, name := range opts.ServerFileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if opts.ServerDir != "" {
		for _, name := range opts.ServerFileNames {
			candidates = append(candidates, filepath.Join(dir, opts.ServerDir, name))
		}
	}

	var found []string
	for _, c := range candidates {
		if isRegularFile(c) {
			found = append(found, c)
		}
	}
	return found
}

// Load reads every client file and the first parseable server file under
// dir. Files that cannot be used are recorded in Result.Skipped and never
// fail the load. The returned error is reserved for discovery problems.
func Load(dir string, opts Options) (*Result, error) {
	res := &Result{}

	clientPaths, err := DiscoverClients(dir, opts)
	if err != nil {
		return nil, err
	}
	for _, path := range clientPaths {
		src, err := ReadSource(path, series.Client)
		if err != nil {
			res.skip(path, err)
			continue
		}
		derived := series.DeriveRates(src, opts.Cumulative)
		log.WithFields(logrus.Fields{
			"source":  path,
			"rows":    src.Len(),
			"columns": len(src.Columns),
			"derived": derived,
		}).Info("loaded client source")
		res.Clients = append(res.Clients, src)
	}

	for _, path := range DiscoverServer(dir, opts) {
		src, err := ReadSource(path, series.Server)
		if err != nil {
			res.skip(path, err)
			continue
		}
		log.WithFields(logrus.Fields{
			"source":  path,
			"rows":    src.Len(),
			"columns": len(src.Columns),
		}).Info("loaded server source")
		res.Server = src
		break
	}

	return res, nil
}

func (r *Result) skip(path string, err error) {
	log.WithError(err).WithField("source", path).Warn("skipping source")
	r.Skipped = append(r.Skipped, &SkipError{Path: path, Err: err})
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
