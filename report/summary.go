package report

import (
	"fmt"

	"github.com/neehar-mavuduru/benchreport/panels"
	"github.com/neehar-mavuduru/benchreport/series"
)

// ClientSummary returns the summary box lines of the client figure.
func ClientSummary(cf *series.ClientFrame, steadyStart float64) []string {
	var lines []string
	if cf.Active != nil {
		lines = append(lines, "Peak Connections: "+panels.HumanFormat(series.Max(cf.Active)))
	}
	if avg, ok := series.SteadyStateMean(cf.Tx, steadyStart); ok {
		lines = append(lines, "Avg TX: "+panels.HumanFormat(avg)+"/s")
	}
	if avg, ok := series.SteadyStateMean(cf.RxDgram, steadyStart); ok {
		lines = append(lines, "Avg RX: "+panels.HumanFormat(avg)+"/s")
	}
	// failed is a cumulative counter, so its maximum is the run total
	if cf.Failed != nil {
		lines = append(lines, fmt.Sprintf("Failed: %d", int64(series.Max(cf.Failed))))
	}
	lines = append(lines, fmt.Sprintf("Duration: %ds", int64(cf.Duration())))
	return lines
}

// ServerSummary returns the summary box lines of the server figure.
func ServerSummary(sf *series.ServerFrame) []string {
	var lines []string
	if rcv := series.Total(sf.RcvbufErrors); rcv > 0 {
		lines = append(lines, "⚠ RcvbufErrors: "+panels.HumanFormat(rcv))
	} else {
		lines = append(lines, "✓ Zero RcvbufErrors")
	}
	if snd := series.Total(sf.SndbufErrors); snd > 0 {
		lines = append(lines, "⚠ SndbufErrors: "+panels.HumanFormat(snd))
	}
	if sf.RSSKB != nil {
		lines = append(lines, fmt.Sprintf("Peak RSS: %.0f MB", series.Max(sf.RSSKB)/1024))
	}
	return lines
}
