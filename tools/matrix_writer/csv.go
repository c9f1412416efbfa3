package matrix_writer

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// CSV writes one line per matrix row, cells in shortest round-trip notation.
type CSV struct{}

func (CSV) Ext() string { return ".csv" }

func (CSV) Encode(m mat.Matrix) ([]byte, error) {
	if isEmpty(m) {
		return nil, ErrEmptyMatrix
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	r, c := m.Dims()
	row := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
