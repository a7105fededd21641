package panels

import (
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/benchreport/series"
)

var (
	dashed = []vg.Length{vg.Points(6), vg.Points(3)}
	dotted = []vg.Length{vg.Points(1), vg.Points(2)}
)

// NewConnections plots active connections with the peak marked. The failed
// curve is drawn only when some failure was counted.
func NewConnections(theme Theme, cf *series.ClientFrame) (*Panel, error) {
	p := newPanel(theme, Connections, "Client Connections", "Connections")
	p.Plot.Y.Tick.Marker = humanTicks

	if cf.Active != nil {
		if err := p.addLine(cf.Elapsed, cf.Active, curve{label: "Active", color: theme.Active, fill: true}); err != nil {
			return nil, err
		}
	}
	if series.AnyPositive(cf.Failed) {
		if err := p.addLine(cf.Elapsed, cf.Failed, curve{label: "Failed", color: theme.Failed, dashes: dashed}); err != nil {
			return nil, err
		}
	}
	if cf.Active != nil {
		if err := p.addPeak(cf.Elapsed, cf.Active, theme.Active, HumanFormat); err != nil {
			return nil, err
		}
	}

	if len(p.Series) == 0 {
		return p, p.noData("No connection samples")
	}
	p.headroom(math.Max(series.Max(cf.Active), series.Max(cf.Failed)))
	return p, nil
}

// NewThroughput plots the outbound and inbound message rates and the
// steady-state mean of the outbound rate, taken from index
// int(len*steadyStart) onwards.
func NewThroughput(theme Theme, cf *series.ClientFrame, steadyStart float64) (*Panel, error) {
	p := newPanel(theme, Throughput, "Client Throughput", "Messages / second")
	p.Plot.Y.Tick.Marker = humanTicks

	if cf.Tx != nil {
		if err := p.addLine(cf.Elapsed, cf.Tx, curve{label: "TX Pixels/s", color: theme.Tx}); err != nil {
			return nil, err
		}
	}
	if cf.RxDgram != nil {
		if err := p.addLine(cf.Elapsed, cf.RxDgram, curve{label: "RX Datagrams/s", color: theme.Rx}); err != nil {
			return nil, err
		}
	}
	if len(p.Series) == 0 {
		return p, p.noData("No throughput samples")
	}

	if avg, ok := series.SteadyStateMean(cf.Tx, steadyStart); ok {
		first, last := cf.Elapsed[0], cf.Elapsed[len(cf.Elapsed)-1]
		ref, err := p.newLine([]float64{first, last}, []float64{avg, avg}, curve{
			color:  withAlpha(theme.Tx, 128),
			width:  vg.Points(1),
			dashes: dotted,
		})
		if err != nil {
			return nil, err
		}
		p.Plot.Add(ref)

		txt := "Avg: " + HumanFormat(avg) + "/s"
		if err := p.addText(series.Max(cf.Elapsed)*0.02, avg, txt, withAlpha(theme.Tx, 204), draw.XLeft, vg.Point{Y: vg.Points(3)}); err != nil {
			return nil, err
		}
		p.Annotations = append(p.Annotations, Annotation{Kind: AverageAnnotation, Text: txt, X: first, Value: avg})
		log.WithField("source", cf.TxSource).Debugf("steady-state tx average %.1f", avg)
	}

	p.headroom(math.Max(series.Max(cf.Tx), series.Max(cf.RxDgram)))
	return p, nil
}

// noData leaves an empty panel with a centered note.
func (p *Panel) noData(msg string) error {
	p.Plot.X.Min, p.Plot.X.Max = 0, 1
	p.Plot.Y.Min, p.Plot.Y.Max = 0, 1
	return p.addText(0.5, 0.5, msg, withAlpha(p.theme.Text, 153), draw.XCenter, vg.Point{})
}
