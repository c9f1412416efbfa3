package fcgr

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/kmers"
	"gonum.org/v1/gonum/mat"

	"seq2img/tools/alphabet"
)

// MaxGridK bounds the frequency grid: its side is 4^k, so k=6 already takes 4096x4096 cells.
const MaxGridK = 6

// GridEncoder counts k-mers into a square 4^k x 4^k frequency grid: the row is the base-4 code of
// the first k-1 bases and the column is the code of the last base. Only the first 4^(k-1) rows
// and 4 columns can ever be filled.
type GridEncoder struct {
	k    int
	side int
	mask uint64
}

// NewGridEncoder returns a prefix/suffix frequency grid encoder for k.
func NewGridEncoder(k int) (*GridEncoder, error) {
	if k < 1 || k > MaxGridK {
		return nil, errors.Errorf("k-mer length %d out of range [1, %d] for the frequency grid", k, MaxGridK)
	}
	return &GridEncoder{
		k:    k,
		side: GridSide(k),
		mask: uint64(1)<<uint(2*k) - 1,
	}, nil
}

// GridSide is the side length of the frequency grid for k.
func GridSide(k int) int { return 1 << uint(2*k) }

func (g *GridEncoder) K() int { return g.k }

func (g *GridEncoder) Dims(int) (r, c int) { return g.side, g.side }

// Encode counts the valid windows of seq. It returns the grid and the number of skipped windows.
func (g *GridEncoder) Encode(seq []byte) (*mat.Dense, int) {
	data := make([]float64, g.side*g.side)
	skipped := 0

	var code uint64
	run := 0
	for i, s := range seq {
		c, ok := alphabet.CodeOf(s)
		if !ok {
			run = 0
			code = 0
		} else {
			code = (code<<2 | uint64(c)) & g.mask
			run++
		}
		if i+1 < g.k {
			continue
		}
		if run >= g.k {
			data[int(code>>2)*g.side+int(code&3)]++
		} else {
			skipped++
		}
	}
	return mat.NewDense(g.side, g.side, data), skipped
}

// GridKmerAt returns the k-mer counted in cell (row, col). Only rows below 4^(k-1) and columns
// below 4 address a k-mer.
func GridKmerAt(row, col, k int) string {
	return string(kmers.Decode(uint64(row)<<2|uint64(col), k))
}
