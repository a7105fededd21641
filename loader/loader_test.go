package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/benchreport/series"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse(t *testing.T) {
	t.Run("SortsAndKeepsNumericColumns", func(t *testing.T) {
		data := "timestamp,worker,active,failed\n" +
			"1700000002,w1,12,0\n" +
			"1700000000,w1,10,0\n" +
			"1700000001,w1,11,1\n"

		src, err := Parse("w1_data.csv", series.Client, strings.NewReader(data))
		require.NoError(t, err)

		assert.Equal(t, []string{"active", "failed"}, src.Columns)
		require.Equal(t, 3, src.Len())
		assert.Equal(t, int64(1700000000), src.Samples[0].Timestamp)
		assert.Equal(t, int64(1700000002), src.Samples[2].Timestamp)
		v, ok := src.Samples[1].Value("failed")
		assert.True(t, ok)
		assert.Equal(t, 1.0, v)
	})

	t.Run("MissingTimestamp", func(t *testing.T) {
		_, err := Parse("bad.csv", series.Client, strings.NewReader("time,active\n1,2\n"))
		assert.ErrorIs(t, err, ErrMissingTimestamp)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		_, err := Parse("empty.csv", series.Client, strings.NewReader("timestamp,active\n"))
		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		_, err := Parse("empty.csv", series.Client, strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("EmptyCellsAreAbsent", func(t *testing.T) {
		data := "timestamp,active,tx_pps\n1,5,\n2,6,100\n"
		src, err := Parse("w.csv", series.Client, strings.NewReader(data))
		require.NoError(t, err)

		_, ok := src.Samples[0].Value("tx_pps")
		assert.False(t, ok)
		v, ok := src.Samples[1].Value("tx_pps")
		assert.True(t, ok)
		assert.Equal(t, 100.0, v)
	})

	t.Run("DropsRowsWithoutTimestamp", func(t *testing.T) {
		data := "timestamp,active\n1,5\n,6\nabc,7\n4,8\n"
		src, err := Parse("w.csv", series.Client, strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 2, src.Len())
	})

	t.Run("TruncatesFractionalTimestamps", func(t *testing.T) {
		data := "timestamp,active\n1700000000.75,5\n"
		src, err := Parse("w.csv", series.Client, strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), src.Samples[0].Timestamp)
	})

	t.Run("ToleratesBOMAndSpaces", func(t *testing.T) {
		data := "\ufefftimestamp, active\n1, 3\n"
		src, err := Parse("w.csv", series.Client, strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"active"}, src.Columns)
	})
}

func TestReadSource_Zstd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w1_data.csv.zst")

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte("timestamp,active\n1,4\n2,5\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err := ReadSource(path, series.Client)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, path, src.Name)
}

func TestDiscoverClients(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_data.csv"), "timestamp\n")
	writeFile(t, filepath.Join(dir, "worker-1", "b_data.csv"), "timestamp\n")
	writeFile(t, filepath.Join(dir, "worker-2", "c_data.csv.zst"), "")
	writeFile(t, filepath.Join(dir, "server", "stray_data.csv"), "timestamp\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	paths, err := DiscoverClients(dir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a_data.csv"),
		filepath.Join(dir, "worker-1", "b_data.csv"),
		filepath.Join(dir, "worker-2", "c_data.csv.zst"),
	}, paths)

	t.Run("OverlappingPatternsLoadOnce", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ClientPatterns = []string{"*_data.csv", "a_*.csv"}
		paths, err := DiscoverClients(dir, opts)
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	})

	t.Run("NoNesting", func(t *testing.T) {
		opts := DefaultOptions()
		opts.WorkerDirGlob = ""
		paths, err := DiscoverClients(dir, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a_data.csv")}, paths)
	})
}

func TestDiscoverServer(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, DiscoverServer(dir, DefaultOptions()))

	writeFile(t, filepath.Join(dir, "server", "server_metrics.csv"), "timestamp\n")
	assert.Equal(t, []string{filepath.Join(dir, "server", "server_metrics.csv")}, DiscoverServer(dir, DefaultOptions()))

	writeFile(t, filepath.Join(dir, "server_metrics.csv"), "timestamp\n")
	found := DiscoverServer(dir, DefaultOptions())
	require.Len(t, found, 2)
	assert.Equal(t, filepath.Join(dir, "server_metrics.csv"), found[0])
}

func TestLoad(t *testing.T) {
	t.Run("SkipsInvalidSources", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "good_data.csv"), "timestamp,active,tx_pixels\n1,1,0\n2,2,50\n3,2,120\n")
		writeFile(t, filepath.Join(dir, "bad_data.csv"), "time,active\n1,1\n")
		writeFile(t, filepath.Join(dir, "empty_data.csv"), "timestamp,active\n")

		res, err := Load(dir, DefaultOptions())
		require.NoError(t, err)

		require.Len(t, res.Clients, 1)
		assert.Nil(t, res.Server)
		require.Len(t, res.Skipped, 2)
		assert.ErrorIs(t, res.Skipped[0], ErrMissingTimestamp)
		assert.ErrorIs(t, res.Skipped[1], ErrEmptySource)

		src := res.Clients[0]
		assert.True(t, src.HasColumn("tx_pixels_s"))
		got := make([]float64, 0, src.Len())
		for _, s := range src.Samples {
			v, _ := s.Value("tx_pixels_s")
			got = append(got, v)
		}
		assert.Equal(t, []float64{0, 50, 70}, got)
	})

	t.Run("FallsBackToNextServerCandidate", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "server_metrics.csv"), "no_ts\n1\n")
		writeFile(t, filepath.Join(dir, "server", "server_metrics.csv"), "timestamp,udp_in_dgrams\n1,10\n")

		res, err := Load(dir, DefaultOptions())
		require.NoError(t, err)

		require.NotNil(t, res.Server)
		assert.Equal(t, filepath.Join(dir, "server", "server_metrics.csv"), res.Server.Name)
		assert.Len(t, res.Skipped, 1)
		assert.False(t, res.Server.HasColumn("udp_in_dgrams_s"))
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		res, err := Load(t.TempDir(), DefaultOptions())
		require.NoError(t, err)
		assert.True(t, res.Empty())
	})

	t.Run("BadPattern", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ClientPatterns = []string{"[_data.csv"}
		_, err := Load(t.TempDir(), opts)
		assert.Error(t, err)
	})
}
