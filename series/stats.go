package series

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SteadyState returns the tail of values that starts at index
// int(len(values)*start), i.e. the part of the run past ramp-up.
func SteadyState(values []float64, start float64) []float64 {
	from := int(float64(len(values)) * start)
	if from < 0 {
		from = 0
	}
	if from > len(values) {
		from = len(values)
	}
	return values[from:]
}

// SteadyStateMean averages the steady-state tail of values.
func SteadyStateMean(values []float64, start float64) (float64, bool) {
	tail := SteadyState(values, start)
	if len(tail) == 0 {
		return 0, false
	}
	return stat.Mean(tail, nil), true
}

// Peak returns the first index holding the maximum and its value.
func Peak(values []float64) (int, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	i := floats.MaxIdx(values)
	return i, values[i], true
}

// Max returns the largest value, or 0 for an empty column.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// Total sums the column.
func Total(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// AnyPositive reports whether a column has at least one value above zero.
func AnyPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

// AnyNonZero reports whether a column has at least one value other than zero.
func AnyNonZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return true
		}
	}
	return false
}
