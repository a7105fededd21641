package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/config"
	"github.com/neehar-mavuduru/benchreport/panels"
	"github.com/neehar-mavuduru/benchreport/series"
)

// Output formats written for every figure.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Formats lists the formats in the order they are written.
var Formats = []string{FormatPNG, FormatSVG}

// Figure is a titled grid of panels with a summary box on its right.
type Figure struct {
	Kind    series.Kind
	Title   string
	Rows    int
	Cols    int
	Panels  []*panels.Panel
	Summary []string

	Width  vg.Length
	Height vg.Length
	// SummaryWidth is the share of Width reserved for the summary column.
	SummaryWidth float64

	// Artifacts holds the written file paths once the figure is saved.
	Artifacts []string

	theme panels.Theme
}

// Panel returns the panel with the given name, or nil.
func (f *Figure) Panel(name string) *panels.Panel {
	for _, p := range f.Panels {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ServerFigure lays out protocol health, CPU, memory and network I/O in a
// 2x2 grid.
func ServerFigure(theme panels.Theme, rc config.ReportConfig, sf *series.ServerFrame) (*Figure, error) {
	builders := []func(panels.Theme, *series.ServerFrame) (*panels.Panel, error){
		panels.NewProtocolHealth,
		panels.NewCPU,
		panels.NewMemory,
		panels.NewNetwork,
	}

	fig := newFigure(theme, rc, series.Server, 2, 2)
	for _, build := range builders {
		p, err := build(theme, sf)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, p)
	}
	fig.Summary = ServerSummary(sf)
	return fig, nil
}

// ClientFigure lays out connections and throughput side by side.
func ClientFigure(theme panels.Theme, rc config.ReportConfig, cf *series.ClientFrame) (*Figure, error) {
	fig := newFigure(theme, rc, series.Client, 1, 2)

	conn, err := panels.NewConnections(theme, cf)
	if err != nil {
		return nil, err
	}
	tput, err := panels.NewThroughput(theme, cf, rc.SteadyStateStart)
	if err != nil {
		return nil, err
	}
	fig.Panels = []*panels.Panel{conn, tput}
	fig.Summary = ClientSummary(cf, rc.SteadyStateStart)
	return fig, nil
}

func newFigure(theme panels.Theme, rc config.ReportConfig, kind series.Kind, rows, cols int) *Figure {
	fig := &Figure{
		Kind:         kind,
		Rows:         rows,
		Cols:         cols,
		SummaryWidth: rc.SummaryWidth,
		theme:        theme,
	}
	size := rc.ClientSize
	fig.Title = rc.ClientTitle
	if kind == series.Server {
		size = rc.ServerSize
		fig.Title = rc.ServerTitle
	}
	fig.Width = vg.Length(size.Width) * vg.Inch
	fig.Height = vg.Length(size.Height) * vg.Inch
	return fig
}

var figurePad = vg.Points(10)

// Draw renders the whole figure into c.
func (f *Figure) Draw(c draw.Canvas) {
	c.SetColor(f.theme.Background)
	c.Fill(c.Rectangle.Path())

	title := text.Style{
		Color:   f.theme.Text,
		Font:    font.From(f.theme.Bold, f.theme.FigureTitleSize),
		XAlign:  draw.XCenter,
		YAlign:  draw.YTop,
		Handler: plot.DefaultTextHandler,
	}
	c.FillText(title, vg.Point{X: c.Center().X, Y: c.Max.Y - figurePad}, f.Title)

	body := draw.Crop(c, 0, 0, 0, -(title.Height(f.Title) + 2*figurePad))
	side := body.Size().X * vg.Length(f.SummaryWidth)
	grid := draw.Crop(body, 0, -side, 0, 0)

	tiles := draw.Tiles{
		Rows:      f.Rows,
		Cols:      f.Cols,
		PadTop:    figurePad,
		PadBottom: figurePad,
		PadLeft:   figurePad,
		PadRight:  figurePad,
		PadX:      2 * figurePad,
		PadY:      2 * figurePad,
	}
	for i, p := range f.Panels {
		p.Draw(tiles.At(grid, i%f.Cols, i/f.Cols))
	}

	f.drawSummary(draw.Crop(body, body.Size().X-side, 0, 0, 0))
}

func (f *Figure) drawSummary(c draw.Canvas) {
	if len(f.Summary) == 0 {
		return
	}

	sty := text.Style{
		Color:   f.theme.Text,
		Font:    font.From(f.theme.Mono, f.theme.SummarySize),
		XAlign:  draw.XLeft,
		YAlign:  draw.YTop,
		Handler: plot.DefaultTextHandler,
	}
	pad := vg.Points(8)
	lineH := sty.Height("Mg") * 1.3

	var w vg.Length
	for _, line := range f.Summary {
		if lw := sty.Width(line); lw > w {
			w = lw
		}
	}

	corner := vg.Point{X: c.Max.X - figurePad, Y: c.Max.Y - figurePad}
	box := vg.Rectangle{
		Min: vg.Point{X: corner.X - w - 2*pad, Y: corner.Y - lineH*vg.Length(len(f.Summary)) - 2*pad},
		Max: corner,
	}
	c.SetColor(f.theme.Background)
	c.Fill(box.Path())
	c.SetLineStyle(draw.LineStyle{Color: f.theme.Grid, Width: vg.Points(1)})
	c.Stroke(box.Path())

	y := box.Max.Y - pad
	for _, line := range f.Summary {
		c.FillText(sty, vg.Point{X: box.Min.X + pad, Y: y}, line)
		y -= lineH
	}
}

// Encode renders the figure in the given format.
func (f *Figure) Encode(format string, dpi int) (io.WriterTo, error) {
	switch format {
	case FormatPNG:
		c := vgimg.NewWith(
			vgimg.UseWH(f.Width, f.Height),
			vgimg.UseDPI(dpi),
			vgimg.UseBackgroundColor(f.theme.Background),
		)
		f.Draw(draw.New(c))
		return vgimg.PngCanvas{Canvas: c}, nil
	case FormatSVG:
		c := vgsvg.New(f.Width, f.Height)
		f.Draw(draw.New(c))
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Save writes the figure as base.png and base.svg through w.
func (f *Figure) Save(w *artifact.Writer, base string, dpi int) error {
	for _, format := range Formats {
		wt, err := f.Encode(format, dpi)
		if err != nil {
			return err
		}
		path, err := w.Write(base+"."+format, wt)
		if err != nil {
			return err
		}
		f.Artifacts = append(f.Artifacts, path)
	}
	return nil
}
