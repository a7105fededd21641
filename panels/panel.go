// Package panels builds the fixed catalog of benchmark report charts on top
// of gonum/plot. Every builder is a pure function of an aggregated frame and
// a Theme.
package panels

import (
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/benchreport/series"
)

var log = logrus.WithField("component", "panels")

// Panel names.
const (
	Connections    = "connections"
	Throughput     = "throughput"
	ProtocolHealth = "protocol_health"
	CPU            = "cpu"
	Memory         = "memory"
	Network        = "network"
)

// AnnotationKind tells what a scalar annotation marks.
type AnnotationKind int

const (
	// PeakAnnotation marks the global maximum of a curve.
	PeakAnnotation AnnotationKind = iota
	// AverageAnnotation marks a steady-state mean.
	AverageAnnotation
	// ErrorTotalAnnotation carries the buffer errors counted over the run.
	// It is recorded, not drawn.
	ErrorTotalAnnotation
)

// Annotation is a derived scalar of a panel.
type Annotation struct {
	Kind  AnnotationKind
	Text  string
	X     float64
	Value float64
}

// Panel is one chart region of a report figure together with what was
// derived for it.
type Panel struct {
	Name  string
	Title string
	Plot  *plot.Plot

	// Series lists the legend labels drawn against the primary axis.
	Series []string
	// Secondary is nil when the panel has no second Y axis.
	Secondary   *SecondaryAxis
	Annotations []Annotation

	theme Theme
}

// HasSeries reports whether a curve with the given legend label was drawn
// on either axis.
func (p *Panel) HasSeries(label string) bool {
	for _, s := range p.Series {
		if s == label {
			return true
		}
	}
	if p.Secondary != nil {
		for _, s := range p.Secondary.Series {
			if s == label {
				return true
			}
		}
	}
	return false
}

// Annotation returns the first annotation of the given kind.
func (p *Panel) Annotation(kind AnnotationKind) (Annotation, bool) {
	for _, a := range p.Annotations {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// Draw renders the panel into c. A secondary axis takes a strip on the
// right edge of c.
func (p *Panel) Draw(c draw.Canvas) {
	if p.Secondary == nil {
		p.Plot.Draw(c)
		return
	}

	c.SetColor(p.Plot.BackgroundColor)
	c.Fill(c.Rectangle.Path())

	inner := draw.Crop(c, 0, -p.Secondary.width(), 0, 0)
	p.Plot.Draw(inner)
	p.Secondary.draw(c, p.Plot, p.Plot.DataCanvas(inner))
}

func newPanel(theme Theme, name, title, ylabel string) *Panel {
	p := plot.New()
	p.BackgroundColor = theme.PanelBackground

	p.Title.Text = title
	p.Title.TextStyle.Color = theme.Text
	p.Title.TextStyle.Font = theme.bold(theme.TitleSize)
	p.Title.Padding = vg.Points(6)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = theme.Grid
		ax.Label.TextStyle.Color = theme.Text
		ax.Label.TextStyle.Font = theme.sans(theme.LabelSize)
		ax.Tick.LineStyle.Color = theme.Grid
		ax.Tick.Label.Color = theme.Text
		ax.Tick.Label.Font = theme.sans(theme.TickSize)
	}
	p.X.Label.Text = "Time (seconds)"
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.Y.Min = 0

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = theme.Text
	p.Legend.TextStyle.Font = theme.sans(theme.LegendSize)
	p.Legend.XOffs = vg.Points(6)
	p.Legend.YOffs = -vg.Points(4)

	grid := plotter.NewGrid()
	grid.Vertical.Color = withAlpha(theme.Grid, theme.GridAlpha)
	grid.Horizontal.Color = withAlpha(theme.Grid, theme.GridAlpha)
	p.Add(grid)

	return &Panel{Name: name, Title: title, Plot: p, theme: theme}
}

type curve struct {
	label  string
	color  color.Color
	width  vg.Length
	dashes []vg.Length
	fill   bool
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = xs[i]
		if i < len(ys) {
			pts[i].Y = ys[i]
		}
	}
	return pts
}

func (p *Panel) newLine(xs, ys []float64, cv curve) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return nil, fmt.Errorf("failed to build %q curve: %w", cv.label, err)
	}
	l.LineStyle.Color = cv.color
	l.LineStyle.Width = cv.width
	if l.LineStyle.Width == 0 {
		l.LineStyle.Width = p.theme.LineWidth
	}
	l.LineStyle.Dashes = cv.dashes
	if cv.fill {
		l.FillColor = withAlpha(cv.color, p.theme.FillAlpha)
	}
	return l, nil
}

// addLine draws a curve against the primary axis.
func (p *Panel) addLine(xs, ys []float64, cv curve) error {
	l, err := p.newLine(xs, ys, cv)
	if err != nil {
		return err
	}
	p.Plot.Add(l)
	if cv.label != "" {
		p.Plot.Legend.Add(cv.label, l)
		p.Series = append(p.Series, cv.label)
	}
	return nil
}

// addText places a label at data coordinates (x, y).
func (p *Panel) addText(x, y float64, s string, clr color.Color, xalign draw.XAlignment, offset vg.Point) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{s},
	})
	if err != nil {
		return fmt.Errorf("failed to build label %q: %w", s, err)
	}
	labels.TextStyle[0] = text.Style{
		Color:   clr,
		Font:    p.theme.sans(p.theme.AnnotationSize),
		XAlign:  xalign,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
	labels.Offset = offset
	p.Plot.Add(labels)
	return nil
}

// addPeak marks the global maximum of ys with a dot and a "Peak:" label.
func (p *Panel) addPeak(xs, ys []float64, clr color.Color, format func(float64) string) error {
	i, peak, ok := series.Peak(ys)
	if !ok {
		return nil
	}
	x := xs[i]
	txt := "Peak: " + format(peak)

	dot, err := plotter.NewScatter(plotter.XYs{{X: x, Y: peak}})
	if err != nil {
		return fmt.Errorf("failed to build peak marker: %w", err)
	}
	dot.GlyphStyle.Color = clr
	dot.GlyphStyle.Radius = vg.Points(2.5)
	dot.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Plot.Add(dot)

	align := draw.XLeft
	offset := vg.Point{X: vg.Points(6), Y: -vg.Points(14)}
	if x > series.Max(xs)/2 {
		align = draw.XRight
		offset.X = -offset.X
	}
	if err := p.addText(x, peak, txt, clr, align, offset); err != nil {
		return err
	}

	p.Annotations = append(p.Annotations, Annotation{Kind: PeakAnnotation, Text: txt, X: x, Value: peak})
	return nil
}

// headroom raises the primary Y maximum so annotations above the data fit.
func (p *Panel) headroom(top float64) {
	if top <= 0 {
		top = 1
	}
	p.Plot.Y.Max = top * 1.15
}
