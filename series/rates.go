package series

// Deltas returns the row-to-row differences of a cumulative counter. The
// first row has no predecessor and gets 0. Negative steps, from a counter
// reset or an out-of-order row, are clamped to 0.
func Deltas(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if d := values[i] - values[i-1]; d > 0 {
			out[i] = d
		}
	}
	return out
}

// DeriveRates adds a rate column to src for every cumulative counter it
// carries and returns the names of the added columns. The source must
// already be sorted. A row where either side of the step lacks the counter
// gets a rate of 0. Counters whose rate column already exists in the file
// are left alone.
func DeriveRates(src *Source, cumulative []string) []string {
	var added []string
	for _, counter := range cumulative {
		if !src.HasColumn(counter) {
			continue
		}
		rate := RateColumn(counter)
		if src.HasColumn(rate) {
			continue
		}

		var prev float64
		prevOK := false
		for i := range src.Samples {
			cur, ok := src.Samples[i].Value(counter)
			d := 0.0
			if i > 0 && ok && prevOK && cur > prev {
				d = cur - prev
			}
			if src.Samples[i].Values == nil {
				src.Samples[i].Values = make(map[string]float64)
			}
			src.Samples[i].Values[rate] = d
			prev, prevOK = cur, ok
		}

		src.Columns = append(src.Columns, rate)
		added = append(added, rate)
	}
	return added
}
