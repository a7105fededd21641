package artifact

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriterTo struct{}

func (failingWriterTo) WriteTo(w io.Writer) (int64, error) {
	n, _ := w.Write([]byte("partial"))
	return int64(n), errors.New("encoder exploded")
}

func TestWriter_Write(t *testing.T) {
	t.Run("WritesContent", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(dir)

		path, err := w.Write("report.svg", strings.NewReader("<svg/>"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "report.svg"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", string(data))
		assert.Equal(t, []string{path}, w.Written())

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("ReplacesExistingFile", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "r.png"), []byte("old"), 0o644))

		path, err := NewWriter(dir).Write("r.png", strings.NewReader("new"))
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("EncoderErrorLeavesNothing", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(dir)

		_, err := w.Write("broken.png", failingWriterTo{})
		require.Error(t, err)
		assert.Empty(t, w.Written())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := NewWriter(filepath.Join(t.TempDir(), "gone")).Write("x.svg", strings.NewReader("x"))
		assert.Error(t, err)
	})
}
