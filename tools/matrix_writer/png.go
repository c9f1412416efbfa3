package matrix_writer

import (
	"bytes"
	"image"
	"image/png"

	"gonum.org/v1/gonum/mat"
)

// PNG writes one 8-bit grayscale pixel per cell: row i of the matrix is image row i.
// Cell values are expected in [0, 1]; anything outside is clamped.
type PNG struct{}

func (PNG) Ext() string { return ".png" }

func (PNG) Encode(m mat.Matrix) ([]byte, error) {
	if isEmpty(m) {
		return nil, ErrEmptyMatrix
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render maps m onto a fresh grayscale raster, value v becoming intensity floor(v*255).
func Render(m mat.Matrix) *image.Gray {
	r, c := m.Dims()
	img := image.NewGray(image.Rect(0, 0, c, r))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			img.Pix[i*img.Stride+j] = intensity(m.At(i, j))
		}
	}
	return img
}

func intensity(v float64) uint8 {
	switch {
	case v != v || v <= 0: // NaN too
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}
