package matrix_writer

import (
	"bytes"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// NPY writes a row-major float64 numpy array of the matrix shape.
type NPY struct{}

func (NPY) Ext() string { return ".npy" }

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func (NPY) Encode(m mat.Matrix) ([]byte, error) {
	if isEmpty(m) {
		return nil, ErrEmptyMatrix
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}

	var buf bytes.Buffer
	npw, err := gonpy.NewWriter(nopCloser{&buf})
	if err != nil {
		return nil, err
	}
	npw.Shape = []int{r, c}
	if err := npw.WriteFloat64(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
