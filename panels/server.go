package panels

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/benchreport/series"
)

// NewProtocolHealth plots inbound and outbound datagram rates. When any
// buffer error was counted, receive-buffer errors are overlaid as bars on a
// secondary axis with send-buffer errors stacked above them.
func NewProtocolHealth(theme Theme, sf *series.ServerFrame) (*Panel, error) {
	p := newPanel(theme, ProtocolHealth, "Server UDP Health", "Datagrams / sec")
	p.Plot.Y.Tick.Marker = humanTicks

	if sf.UDPIn != nil {
		if err := p.addLine(sf.Elapsed, sf.UDPIn, curve{label: "UDP In/s", color: theme.UDPIn}); err != nil {
			return nil, err
		}
	}
	if sf.UDPOut != nil {
		if err := p.addLine(sf.Elapsed, sf.UDPOut, curve{label: "UDP Out/s", color: withAlpha(theme.Tx, 179), width: vg.Points(1.2)}); err != nil {
			return nil, err
		}
	}
	if len(p.Series) == 0 && !sf.HasBufferErrors() {
		return p, p.noData("No UDP counters")
	}
	p.headroom(math.Max(series.Max(sf.UDPIn), series.Max(sf.UDPOut)))

	if !sf.HasBufferErrors() {
		return p, nil
	}

	rcv := orZeros(sf.RcvbufErrors, sf.Len())
	snd := orZeros(sf.SndbufErrors, sf.Len())
	stacked := make([]float64, len(rcv))
	for i := range stacked {
		stacked[i] = math.Max(rcv[i], 0) + math.Max(snd[i], 0)
	}

	p.attachSecondary("Errors / sec", series.Max(stacked), humanTicks, theme.UDPErrors)
	p.addSecondaryBars(sf.Elapsed, rcv, nil, "RcvbufErr/s", withAlpha(theme.UDPErrors, 153))
	if series.AnyNonZero(snd) {
		p.addSecondaryBars(sf.Elapsed, snd, rcv, "SndBufErr/s", withAlpha(theme.SndbufErrors, 128))
	}

	total := series.Total(sf.RcvbufErrors) + series.Total(sf.SndbufErrors)
	p.Annotations = append(p.Annotations, Annotation{
		Kind:  ErrorTotalAnnotation,
		Text:  "Errors: " + HumanFormat(total),
		Value: total,
	})
	log.Debugf("buffer errors over run: %.0f", total)
	return p, nil
}

// CPUShares are per-row percentages of the total jiffies of a row.
type CPUShares struct {
	User    []float64
	Nice    []float64
	System  []float64
	Idle    []float64
	IOWait  []float64
	IRQ     []float64
	SoftIRQ []float64
}

// CPUPercent divides every counter by the per-row sum of all seven. A row
// whose counters are all zero yields 0% everywhere. Missing counters count
// as zero.
func CPUPercent(c series.CPUCounters, n int) CPUShares {
	total := make([]float64, n)
	for _, col := range c.All() {
		for i := 0; i < n && i < len(col); i++ {
			total[i] += col[i]
		}
	}
	for i := range total {
		if total[i] == 0 {
			total[i] = 1
		}
	}

	pct := func(col []float64) []float64 {
		out := make([]float64, n)
		for i := 0; i < n && i < len(col); i++ {
			out[i] = col[i] / total[i] * 100
		}
		return out
	}
	return CPUShares{
		User:    pct(c.User),
		Nice:    pct(c.Nice),
		System:  pct(c.System),
		Idle:    pct(c.Idle),
		IOWait:  pct(c.IOWait),
		IRQ:     pct(c.IRQ),
		SoftIRQ: pct(c.SoftIRQ),
	}
}

// NewCPU renders user, system, softirq and idle shares as a stacked area on
// a fixed 0-100% axis.
func NewCPU(theme Theme, sf *series.ServerFrame) (*Panel, error) {
	p := newPanel(theme, CPU, "Server CPU Utilization", "CPU %")
	if !sf.CPU.Present() {
		return p, p.noData("No CPU counters")
	}

	shares := CPUPercent(sf.CPU, sf.Len())
	labels := []string{"User", "System", "Softirq", "Idle"}
	colors := []color.Color{
		withAlpha(theme.CPUUser, theme.StackAlpha),
		withAlpha(theme.CPUSystem, theme.StackAlpha),
		withAlpha(theme.CPUSoftIRQ, theme.StackAlpha),
		withAlpha(theme.CPUIdle, theme.StackAlpha),
	}
	bands, err := stackArea(sf.Elapsed, [][]float64{shares.User, shares.System, shares.SoftIRQ, shares.Idle}, colors)
	if err != nil {
		return nil, fmt.Errorf("failed to build cpu bands: %w", err)
	}
	for i, band := range bands {
		p.Plot.Add(band)
		p.Plot.Legend.Add(labels[i], band)
		p.Series = append(p.Series, labels[i])
	}

	p.Plot.Y.Min, p.Plot.Y.Max = 0, 100
	return p, nil
}

// NewMemory plots resident memory in MB and labels its peak in MB and GB.
func NewMemory(theme Theme, sf *series.ServerFrame) (*Panel, error) {
	p := newPanel(theme, Memory, "Server Memory (RSS)", "MB")
	if sf.RSSKB == nil {
		return p, p.noData("No memory samples")
	}

	mb := make([]float64, len(sf.RSSKB))
	for i, kb := range sf.RSSKB {
		mb[i] = kb / 1024
	}
	if err := p.addLine(sf.Elapsed, mb, curve{label: "RSS", color: theme.RSS, fill: true}); err != nil {
		return nil, err
	}

	i, peak, _ := series.Peak(mb)
	txt := fmt.Sprintf("Peak: %.0f MB (%.1f GB)", peak, peak/1024)
	if err := p.addText(series.Max(sf.Elapsed)*0.7, peak*0.9, txt, theme.RSS, draw.XLeft, vg.Point{}); err != nil {
		return nil, err
	}
	p.Annotations = append(p.Annotations, Annotation{Kind: PeakAnnotation, Text: txt, X: sf.Elapsed[i], Value: peak})

	p.headroom(peak)
	return p, nil
}

// NewNetwork plots byte rates on the primary axis and, when collected,
// packet rates as dotted lines on a secondary axis.
func NewNetwork(theme Theme, sf *series.ServerFrame) (*Panel, error) {
	p := newPanel(theme, Network, "Network I/O (bytes/s)", "Bytes / sec")
	p.Plot.Y.Tick.Marker = bytesTicks

	if sf.NetRxBytes != nil {
		if err := p.addLine(sf.Elapsed, sf.NetRxBytes, curve{label: "RX", color: theme.NetRx}); err != nil {
			return nil, err
		}
	}
	if sf.NetTxBytes != nil {
		if err := p.addLine(sf.Elapsed, sf.NetTxBytes, curve{label: "TX", color: theme.NetTx}); err != nil {
			return nil, err
		}
	}
	if len(p.Series) == 0 && sf.NetRxPackets == nil && sf.NetTxPackets == nil {
		return p, p.noData("No network counters")
	}
	p.headroom(math.Max(series.Max(sf.NetRxBytes), series.Max(sf.NetTxBytes)))

	if sf.NetRxPackets == nil && sf.NetTxPackets == nil {
		return p, nil
	}

	top := math.Max(series.Max(sf.NetRxPackets), series.Max(sf.NetTxPackets))
	p.attachSecondary("Packets / sec", top, humanTicks, withAlpha(theme.Text, 179))
	if sf.NetRxPackets != nil {
		if err := p.addSecondaryLine(sf.Elapsed, sf.NetRxPackets, curve{label: "RX Pkts/s", color: withAlpha(theme.RxPackets, 128), width: vg.Points(1), dashes: dotted}); err != nil {
			return nil, err
		}
	}
	if sf.NetTxPackets != nil {
		if err := p.addSecondaryLine(sf.Elapsed, sf.NetTxPackets, curve{label: "TX Pkts/s", color: withAlpha(theme.TxPackets, 128), width: vg.Points(1), dashes: dotted}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func orZeros(col []float64, n int) []float64 {
	if col != nil {
		return col
	}
	return make([]float64, n)
}
