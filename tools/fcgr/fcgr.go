// Package fcgr builds Frequency Chaos Game Representation matrices from nucleotide sequences.
//
// Every k-mer over {A,C,G,T} owns exactly one cell of a (2^k)x(2^k) grid. The row is formed from the
// high bits of the per-base codes and the column from the low bits, first base in the most
// significant position:
//
//	A=00 C=01 G=10 T=11
//	"ACG" -> x = 0b001, y = 0b010
//
// Windows containing a symbol outside the alphabet are skipped whole.
package fcgr

import (
	"fmt"

	"github.com/shenwei356/kmers"
	"gonum.org/v1/gonum/mat"

	"seq2img/tools/alphabet"
)

// MaxK is the largest k a 64-bit rolling code can hold.
const MaxK = 31

// ErrK reports an unusable k-mer length.
type ErrK int

func (e ErrK) Error() string {
	return fmt.Sprintf("k-mer length %d out of range [1, %d]", int(e), MaxK)
}

// Encoder accumulates CGR counts for a fixed k.
type Encoder struct {
	k    int
	dim  int
	mask uint64
}

// NewEncoder returns a CGR encoder for k-mers of length k.
func NewEncoder(k int) (*Encoder, error) {
	if k < 1 || k > MaxK {
		return nil, ErrK(k)
	}
	return &Encoder{k: k, dim: Dim(k), mask: uint64(1)<<uint(k) - 1}, nil
}

// Dim is the side length of the CGR matrix for k.
func Dim(k int) int { return 1 << uint(k) }

// K returns the k-mer length.
func (e *Encoder) K() int { return e.k }

// Dims returns the matrix shape produced for any sequence.
func (e *Encoder) Dims(int) (r, c int) { return e.dim, e.dim }

// Encode counts every valid window of seq into a fresh (2^k)x(2^k) matrix. The second return value
// is the number of windows skipped because they held a symbol outside the alphabet.
// seq must already be uppercase.
func (e *Encoder) Encode(seq []byte) (*mat.Dense, int) {
	data := make([]float64, e.dim*e.dim)
	skipped := 0

	var x, y uint64
	run := 0 // valid symbols ending at the current position
	for i, s := range seq {
		c, ok := alphabet.CodeOf(s)
		if !ok {
			run = 0
			x, y = 0, 0
		} else {
			x = (x<<1 | uint64(c>>1)) & e.mask
			y = (y<<1 | uint64(c&1)) & e.mask
			run++
		}
		if i+1 < e.k {
			continue
		}
		if run >= e.k {
			data[int(x)*e.dim+int(y)]++
		} else {
			skipped++
		}
	}
	return mat.NewDense(e.dim, e.dim, data), skipped
}

// Coordinate returns the cell addressed by a k-mer. ok is false when the k-mer holds a symbol
// outside the alphabet or is longer than MaxK.
func Coordinate(kmer []byte) (x, y int, ok bool) {
	if len(kmer) > MaxK {
		return 0, 0, false
	}
	for _, s := range kmer {
		c, valid := alphabet.CodeOf(s)
		if !valid {
			return 0, 0, false
		}
		x = x<<1 | int(c>>1)
		y = y<<1 | int(c&1)
	}
	return x, y, true
}

// KmerAt returns the k-mer owning cell (x, y) of a (2^k)x(2^k) grid.
func KmerAt(x, y, k int) string {
	var code uint64
	for j := k - 1; j >= 0; j-- {
		code = code<<2 | uint64((x>>uint(j))&1)<<1 | uint64((y>>uint(j))&1)
	}
	return string(kmers.Decode(code, k))
}
