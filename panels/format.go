package panels

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

// HumanFormat abbreviates large counts: 1200000 -> "1.2M", 4500 -> "4K",
// 950 -> "950".
func HumanFormat(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case a >= 1e3:
		return fmt.Sprintf("%.0fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// BytesFormat renders a byte rate: 1073741824 -> "1.1 GB/s".
func BytesFormat(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1e9:
		return fmt.Sprintf("%.1f GB/s", v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("%.0f MB/s", v/1e6)
	case a >= 1e3:
		return fmt.Sprintf("%.0f KB/s", v/1e3)
	default:
		return fmt.Sprintf("%.0f B/s", v)
	}
}

// formatTicks places ticks like plot.DefaultTicks and relabels the major
// ones with format.
type formatTicks struct {
	format func(float64) string
}

var (
	humanTicks plot.Ticker = formatTicks{format: HumanFormat}
	bytesTicks plot.Ticker = formatTicks{format: BytesFormat}
)

func (t formatTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].IsMinor() {
			continue
		}
		ticks[i].Label = t.format(ticks[i].Value)
	}
	return ticks
}
