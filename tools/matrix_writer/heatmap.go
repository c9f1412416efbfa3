package matrix_writer

import (
	"bytes"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Heatmap renders the matrix as a colored heat map PNG without axes. A new plot is built on
// every call.
type Heatmap struct {
	Title string
	Size  vg.Length // side of the square canvas; 0 means 8 inches
}

func (Heatmap) Ext() string { return ".png" }

// grid presents a matrix to plotter.HeatMap with row 0 at the top, like the raster output.
type grid struct {
	m    mat.Matrix
	rows int
	cols int
}

func (g grid) Dims() (c, r int)   { return g.cols, g.rows }
func (g grid) Z(c, r int) float64 { return g.m.At(g.rows-1-r, c) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func (h Heatmap) Encode(m mat.Matrix) ([]byte, error) {
	if isEmpty(m) {
		return nil, ErrEmptyMatrix
	}
	r, c := m.Dims()

	p := plot.New()
	p.Title.Text = h.Title
	p.HideAxes()

	hm := plotter.NewHeatMap(grid{m: m, rows: r, cols: c}, palette.Heat(256, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1 // flat matrices still need a non-empty color range
	}
	p.Add(hm)

	size := h.Size
	if size == 0 {
		size = 8 * vg.Inch
	}
	writer, err := p.WriterTo(size, size, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
