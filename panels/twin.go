package panels

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SecondaryAxis is a right-hand Y axis sharing the panel's X axis. Its
// curves live in the primary plot, scaled so that Max lands on the primary
// axis maximum.
type SecondaryAxis struct {
	Label string
	// Max is the top of the axis in its own units. The axis starts at 0.
	Max float64
	// Series lists the legend labels drawn against this axis.
	Series []string

	ticker plot.Ticker
	scale  float64
	color  color.Color
	legend plot.Legend
	theme  Theme
}

// primaryTop fixes the primary Y maximum to a finite positive value and
// returns it.
func (p *Panel) primaryTop() float64 {
	top := p.Plot.Y.Max
	if math.IsInf(top, 0) || math.IsNaN(top) || top <= 0 {
		top = 1
	}
	p.Plot.Y.Max = top
	return top
}

// attachSecondary adds a right-hand axis spanning [0, max]. All primary
// curves must already be added.
func (p *Panel) attachSecondary(label string, max float64, ticker plot.Ticker, clr color.Color) *SecondaryAxis {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		max = 1
	}
	max *= 1.15

	leg := plot.NewLegend()
	leg.Top = true
	leg.Left = false
	leg.TextStyle.Color = p.theme.Text
	leg.TextStyle.Font = p.theme.sans(p.theme.LegendSize)
	leg.XOffs = -vg.Points(6)
	leg.YOffs = -vg.Points(4)

	s := &SecondaryAxis{
		Label:  label,
		Max:    max,
		ticker: ticker,
		scale:  p.primaryTop() / max,
		color:  clr,
		legend: leg,
		theme:  p.theme,
	}
	p.Secondary = s
	return s
}

// scaled maps secondary values into primary coordinates.
func (s *SecondaryAxis) scaled(ys []float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = y * s.scale
	}
	return out
}

// addSecondaryLine draws a curve against the secondary axis.
func (p *Panel) addSecondaryLine(xs, ys []float64, cv curve) error {
	s := p.Secondary
	l, err := p.newLine(xs, s.scaled(ys), cv)
	if err != nil {
		return err
	}
	p.Plot.Add(l)
	if cv.label != "" {
		s.legend.Add(cv.label, l)
		s.Series = append(s.Series, cv.label)
	}
	return nil
}

// addSecondaryBars draws a bar layer against the secondary axis, stacked on
// bottom (nil for the ground layer).
func (p *Panel) addSecondaryBars(xs, heights, bottom []float64, label string, clr color.Color) {
	s := p.Secondary
	b := &stackedBars{
		X:      xs,
		Height: s.scaled(heights),
		Width:  0.8,
		Color:  clr,
	}
	if bottom != nil {
		b.Bottom = s.scaled(bottom)
	}
	p.Plot.Add(b)
	s.legend.Add(label, b)
	s.Series = append(s.Series, label)
}

func (s *SecondaryAxis) tickStyle() text.Style {
	return text.Style{
		Color:   s.color,
		Font:    s.theme.sans(s.theme.TickSize),
		XAlign:  draw.XLeft,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

func (s *SecondaryAxis) labelStyle() text.Style {
	return text.Style{
		Color:    s.color,
		Font:     s.theme.sans(s.theme.LabelSize),
		Rotation: math.Pi / 2,
		XAlign:   draw.XCenter,
		YAlign:   draw.YBottom,
		Handler:  plot.DefaultTextHandler,
	}
}

var (
	secondaryTickLength = vg.Points(5)
	secondaryGap        = vg.Points(4)
)

// width is the horizontal space the axis needs to the right of the data.
func (s *SecondaryAxis) width() vg.Length {
	sty := s.tickStyle()
	var labels vg.Length
	for _, t := range s.ticker.Ticks(0, s.Max) {
		if t.IsMinor() {
			continue
		}
		if w := sty.Width(t.Label); w > labels {
			labels = w
		}
	}
	return secondaryTickLength + secondaryGap + labels + secondaryGap + s.labelStyle().Height(s.Label) + secondaryGap
}

func (s *SecondaryAxis) draw(c draw.Canvas, plt *plot.Plot, da draw.Canvas) {
	_, trY := plt.Transforms(&da)
	axis := draw.LineStyle{Color: s.theme.Grid, Width: vg.Points(0.5)}

	x := da.Max.X
	c.StrokeLine2(axis, x, da.Min.Y, x, da.Max.Y)

	sty := s.tickStyle()
	for _, t := range s.ticker.Ticks(0, s.Max) {
		if t.Value < 0 || t.Value > s.Max {
			continue
		}
		y := trY(t.Value * s.scale)
		l := secondaryTickLength
		if t.IsMinor() {
			c.StrokeLine2(axis, x, y, x+l/2, y)
			continue
		}
		c.StrokeLine2(axis, x, y, x+l, y)
		c.FillText(sty, vg.Point{X: x + l + secondaryGap, Y: y}, t.Label)
	}

	lbl := s.labelStyle()
	descent := lbl.FontExtents().Descent
	c.FillText(lbl, vg.Point{X: c.Max.X - secondaryGap - descent, Y: da.Center().Y}, s.Label)

	s.legend.Draw(da)
}
