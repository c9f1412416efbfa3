package one_hot

import (
	"gonum.org/v1/gonum/mat"

	"seq2img/tools/alphabet"
)

// Encode returns the 4xN one-hot matrix of seq, one row per alphabet code. A position holding a
// symbol outside the alphabet keeps an all-zero column so that column i always stays position i.
// The second value counts those zero columns. An empty sequence yields an empty matrix.
func Encode(seq []byte) (*mat.Dense, int) {
	if len(seq) == 0 {
		return &mat.Dense{}, 0
	}
	n := len(seq)
	data := make([]float64, alphabet.Size*n)
	skipped := 0
	for i, s := range seq {
		c, ok := alphabet.CodeOf(s)
		if !ok {
			skipped++
			continue
		}
		data[int(c)*n+i] = 1
	}
	return mat.NewDense(alphabet.Size, n, data), skipped
}

// Encoder adapts Encode to the k-parameterized encoder shape used by the dataset pipeline.
type Encoder struct{}

func (Encoder) K() int { return 0 }

func (Encoder) Dims(n int) (r, c int) { return alphabet.Size, n }

func (Encoder) Encode(seq []byte) (*mat.Dense, int) { return Encode(seq) }
