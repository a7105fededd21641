// Package artifact writes report files so that a path is only reported once
// its content is complete on disk.
package artifact

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "artifact")

// Writer places artifacts in one output directory and remembers what it
// wrote.
type Writer struct {
	dir     string
	perm    os.FileMode
	written []string
}

// NewWriter creates a writer for dir. The directory must exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, perm: 0o644}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Written returns the paths written so far, in order.
func (w *Writer) Written() []string {
	return append([]string(nil), w.written...)
}

// Write streams wt into dir/name. Data goes to a temporary file in the same
// directory which is flushed to stable storage, closed and renamed over the
// final name. On error nothing is left at the final path.
func (w *Writer) Write(name string, wt io.WriterTo) (string, error) {
	path := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	n, err := writeSynced(tmp, wt)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close file: %w", cerr)
	}
	if err == nil {
		if err = os.Chmod(tmpPath, w.perm); err != nil {
			err = fmt.Errorf("failed to set permissions: %w", err)
		}
	}
	if err == nil {
		if err = os.Rename(tmpPath, path); err != nil {
			err = fmt.Errorf("failed to rename into place: %w", err)
		}
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := syncDir(w.dir); err != nil {
		log.WithError(err).WithField("dir", w.dir).Warn("directory sync failed")
	}

	log.WithFields(logrus.Fields{"path": path, "bytes": n}).Debug("artifact written")
	w.written = append(w.written, path)
	return path, nil
}

func writeSynced(f *os.File, wt io.WriterTo) (int64, error) {
	bw := bufio.NewWriterSize(f, 256*1024)
	n, err := wt.WriteTo(bw)
	if err != nil {
		return n, fmt.Errorf("failed to encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush: %w", err)
	}
	if err := syncFile(f); err != nil {
		return n, fmt.Errorf("failed to sync file: %w", err)
	}
	return n, nil
}
