package panels

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// stackedBars draws one bar per X, Width data units wide, from Bottom[i]
// (0 when Bottom is nil) up by Height[i]. Zero-height bars are skipped.
type stackedBars struct {
	X      []float64
	Height []float64
	Bottom []float64
	Width  float64
	Color  color.Color
}

func (b *stackedBars) base(i int) float64 {
	if i < len(b.Bottom) {
		return b.Bottom[i]
	}
	return 0
}

// Plot implements the plot.Plotter interface.
func (b *stackedBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, x := range b.X {
		if i >= len(b.Height) || b.Height[i] <= 0 {
			continue
		}
		x0, x1 := trX(x-b.Width/2), trX(x+b.Width/2)
		y0, y1 := trY(b.base(i)), trY(b.base(i)+b.Height[i])
		pts := c.ClipPolygonXY([]vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
		c.FillPolygon(b.Color, pts)
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *stackedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(b.X) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = b.X[0]-b.Width/2, b.X[0]+b.Width/2
	for i, x := range b.X {
		if x-b.Width/2 < xmin {
			xmin = x - b.Width/2
		}
		if x+b.Width/2 > xmax {
			xmax = x + b.Width/2
		}
		if i < len(b.Height) {
			if top := b.base(i) + b.Height[i]; top > ymax {
				ymax = top
			}
		}
	}
	return xmin, xmax, 0, ymax
}

// Thumbnail implements the plot.Thumbnailer interface.
func (b *stackedBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	}
	c.FillPolygon(b.Color, c.ClipPolygonY(pts))
}

// stackArea builds one filled band per layer, each drawn on top of the sum
// of the layers before it.
func stackArea(xs []float64, layers [][]float64, colors []color.Color) ([]*plotter.Polygon, error) {
	base := make([]float64, len(xs))
	bands := make([]*plotter.Polygon, 0, len(layers))
	for k, layer := range layers {
		ring := make(plotter.XYs, 0, 2*len(xs))
		top := make([]float64, len(xs))
		for i, x := range xs {
			top[i] = base[i] + layer[i]
			ring = append(ring, plotter.XY{X: x, Y: top[i]})
		}
		for i := len(xs) - 1; i >= 0; i-- {
			ring = append(ring, plotter.XY{X: xs[i], Y: base[i]})
		}

		poly, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, err
		}
		poly.Color = colors[k]
		poly.LineStyle.Color = colors[k]
		poly.LineStyle.Width = 0
		bands = append(bands, poly)
		base = top
	}
	return bands, nil
}
