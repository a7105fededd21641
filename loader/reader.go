package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/neehar-mavuduru/benchreport/series"
)

// ZstdSuffix marks a counter file compressed with zstd.
const ZstdSuffix = ".zst"

// ReadSource parses one counter file into a sorted Source. Files ending in
// .zst are decompressed on the fly.
func ReadSource(path string, kind series.Kind) (*series.Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ZstdSuffix) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	return Parse(path, kind, r)
}

type rawRow struct {
	timestamp int64
	cells     []string
}

// Parse reads CSV counter rows from r. The header must name a timestamp
// column. A column is kept only if every non-empty cell in it is numeric;
// empty cells become absent values. Rows whose timestamp is empty or not a
// number are dropped.
func Parse(name string, kind series.Kind, r io.Reader) (*series.Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = normalizeHeader(header)

	tsCol := -1
	for i, h := range header {
		if h == series.ColTimestamp {
			tsCol = i
			break
		}
	}
	if tsCol < 0 {
		return nil, ErrMissingTimestamp
	}

	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = i != tsCol && header[i] != ""
	}

	var rows []rawRow
	dropped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		ts, ok := parseTimestamp(cell(record, tsCol))
		if !ok {
			dropped++
			log.WithField("source", name).Debugf("row %d: no usable timestamp", line)
			continue
		}
		for i := range header {
			if !numeric[i] {
				continue
			}
			if v := cell(record, i); v != "" {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					numeric[i] = false
				}
			}
		}
		rows = append(rows, rawRow{timestamp: ts, cells: record})
	}
	if dropped > 0 {
		log.WithField("source", name).Warnf("dropped %d rows without a usable timestamp", dropped)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}

	var (
		columns []string
		index   []int
		seen    = make(map[string]bool)
	)
	for i, h := range header {
		if !numeric[i] || seen[h] {
			continue
		}
		seen[h] = true
		columns = append(columns, h)
		index = append(index, i)
	}
	for i, h := range header {
		if i != tsCol && h != "" && !numeric[i] {
			log.WithField("source", name).Debugf("dropping non-numeric column %q", h)
		}
	}

	samples := make([]series.Sample, 0, len(rows))
	for _, row := range rows {
		values := make(map[string]float64, len(columns))
		for k, i := range index {
			v := cell(row.cells, i)
			if v == "" {
				continue
			}
			f, _ := strconv.ParseFloat(v, 64)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			values[columns[k]] = f
		}
		samples = append(samples, series.Sample{Timestamp: row.timestamp, Values: values})
	}

	return series.NewSource(name, kind, columns, samples), nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int64(math.Trunc(v)), true
}
