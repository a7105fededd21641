package series

import (
	"sort"
)

// Frame is the per-timestamp sum of every source of one kind. It holds one
// row per distinct timestamp, in ascending order, and an elapsed-seconds
// axis measured from the earliest row.
type Frame struct {
	Kind       Kind
	Timestamps []int64
	Elapsed    []float64
	// Columns is the union of the sources' numeric columns in first-seen
	// order.
	Columns []string
	// Sources is the number of sources that were merged.
	Sources int

	values map[string][]float64
}

// Aggregate merges sources into one Frame. Samples that share a timestamp
// are summed column by column; a column a sample lacks contributes nothing,
// so a timestamp seen by a single source passes its values through. No
// interpolation happens across gaps.
func Aggregate(kind Kind, sources []*Source) *Frame {
	f := &Frame{
		Kind:    kind,
		Sources: len(sources),
		values:  make(map[string][]float64),
	}

	seen := make(map[string]bool)
	rows := make(map[int64]int)
	for _, src := range sources {
		for _, c := range src.Columns {
			if c == ColTimestamp || c == ColElapsed || seen[c] {
				continue
			}
			seen[c] = true
			f.Columns = append(f.Columns, c)
		}
		for _, s := range src.Samples {
			if _, ok := rows[s.Timestamp]; !ok {
				rows[s.Timestamp] = 0
				f.Timestamps = append(f.Timestamps, s.Timestamp)
			}
		}
	}

	sort.Slice(f.Timestamps, func(i, j int) bool { return f.Timestamps[i] < f.Timestamps[j] })
	for i, ts := range f.Timestamps {
		rows[ts] = i
	}

	for _, c := range f.Columns {
		f.values[c] = make([]float64, len(f.Timestamps))
	}
	for _, src := range sources {
		for _, s := range src.Samples {
			row := rows[s.Timestamp]
			for name, v := range s.Values {
				if col, ok := f.values[name]; ok {
					col[row] += v
				}
			}
		}
	}

	f.Elapsed = make([]float64, len(f.Timestamps))
	if len(f.Timestamps) > 0 {
		t0 := f.Timestamps[0]
		for i, ts := range f.Timestamps {
			f.Elapsed[i] = float64(ts - t0)
		}
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Timestamps)
}

// Has reports whether any merged source carried the column.
func (f *Frame) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Column returns the summed values of name.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.values[name]
	return col, ok
}

// optional returns the column or nil when absent.
func (f *Frame) optional(name string) []float64 {
	col, ok := f.values[name]
	if !ok {
		return nil
	}
	return col
}
