// Package series holds the sample model shared by the loader, the aggregator
// and the panel renderer.
package series

import (
	"sort"
)

// Kind identifies which side of the benchmark produced a source.
type Kind int

const (
	// Client sources are per-worker load generator counter files.
	Client Kind = iota
	// Server is the single server resource counter stream.
	Server
)

func (k Kind) String() string {
	switch k {
	case Client:
		return "client"
	case Server:
		return "server"
	default:
		return "unknown"
	}
}

// Sample is one row of measurements taken at Timestamp (seconds since epoch).
// A metric missing from Values had an empty cell in its source row.
type Sample struct {
	Timestamp int64
	Values    map[string]float64
}

// Value returns the named metric and whether the row carried it.
func (s Sample) Value(name string) (float64, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Source is the sample stream of one producer, ordered by timestamp.
type Source struct {
	// Name is the path the samples were read from.
	Name string
	Kind Kind
	// Columns lists the numeric metric columns in header order, without
	// the timestamp key. Derived rate columns are appended after them.
	Columns []string
	Samples []Sample
}

// NewSource builds a Source and sorts its samples by timestamp. Samples
// sharing a timestamp keep their file order.
func NewSource(name string, kind Kind, columns []string, samples []Sample) *Source {
	src := &Source{
		Name:    name,
		Kind:    kind,
		Columns: append([]string(nil), columns...),
		Samples: samples,
	}
	src.SortByTimestamp()
	return src
}

// SortByTimestamp orders the samples by ascending timestamp.
func (s *Source) SortByTimestamp() {
	sort.SliceStable(s.Samples, func(i, j int) bool {
		return s.Samples[i].Timestamp < s.Samples[j].Timestamp
	})
}

// HasColumn reports whether name is one of the source's numeric columns.
func (s *Source) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of samples.
func (s *Source) Len() int {
	return len(s.Samples)
}
