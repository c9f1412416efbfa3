// Package matrix_writer turns encoded matrices into output artifacts: grayscale PNG rasters,
// CSV tables, numpy .npy arrays, or colored heatmaps. Every Writer is stateless; Save writes the
// artifact atomically and returns its content digest.
package matrix_writer

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"gonum.org/v1/gonum/mat"

	common "seq2img/utils"
)

// ErrEmptyMatrix is returned for matrices without cells; no file format here can hold them.
var ErrEmptyMatrix = errors.New("matrix has no cells")

// Writer encodes a matrix into the bytes of one output file.
type Writer interface {
	// Ext is the file extension, including the dot.
	Ext() string
	Encode(m mat.Matrix) ([]byte, error)
}

// New returns the writer for an output format: image, matrix, npy or heatmap.
func New(format string) (Writer, error) {
	switch format {
	case "image":
		return PNG{}, nil
	case "matrix":
		return CSV{}, nil
	case "npy":
		return NPY{}, nil
	case "heatmap":
		return Heatmap{Title: "FCGR Matrix"}, nil
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

// Save encodes m with w and atomically replaces path with the result. It returns the hex
// BLAKE2b-256 digest of the written bytes.
func Save(w Writer, m mat.Matrix, path string) (string, error) {
	if isEmpty(m) {
		return "", ErrEmptyMatrix
	}
	data, err := w.Encode(m)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", path)
	}
	if err := common.WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return Digest(data), nil
}

// Digest is the hex BLAKE2b-256 sum of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isEmpty(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return true
	}
	r, c := m.Dims()
	return r == 0 || c == 0
}
