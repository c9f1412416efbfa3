package fcgr_test

import (
	"math/rand"
	"testing"

	"github.com/shenwei356/kmers"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"seq2img/tools/alphabet"
	"seq2img/tools/fcgr"
)

// naive is the window-by-window definition the rolling encoder must agree with.
func naive(seq []byte, k int) *mat.Dense {
	dim := fcgr.Dim(k)
	m := mat.NewDense(dim, dim, nil)
	for i := 0; i+k <= len(seq); i++ {
		if x, y, ok := fcgr.Coordinate(seq[i : i+k]); ok {
			m.Set(x, y, m.At(x, y)+1)
		}
	}
	return m
}

func allKmers(k int) []string {
	out := []string{""}
	for i := 0; i < k; i++ {
		var next []string
		for _, p := range out {
			for _, s := range alphabet.Symbols {
				next = append(next, p+string(s))
			}
		}
		out = next
	}
	return out
}

func randomSeq(r *rand.Rand, n int, symbols string) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = symbols[r.Intn(len(symbols))]
	}
	return seq
}

func mustEncoder(t *testing.T, k int) *fcgr.Encoder {
	t.Helper()
	e, err := fcgr.NewEncoder(k)
	require.NoError(t, err)
	return e
}

func TestNewEncoderRejectsK(t *testing.T) {
	for _, k := range []int{0, -1, fcgr.MaxK + 1} {
		_, err := fcgr.NewEncoder(k)
		require.Error(t, err)
		var ek fcgr.ErrK
		require.ErrorAs(t, err, &ek)
		_, err = fcgr.NewGridEncoder(k)
		require.Error(t, err)
	}
	_, err := fcgr.NewGridEncoder(fcgr.MaxGridK + 1)
	require.Error(t, err)
}

func TestSingleHomopolymer(t *testing.T) {
	m, skipped := mustEncoder(t, 3).Encode([]byte("AAA"))
	r, c := m.Dims()
	require.Equal(t, 8, r)
	require.Equal(t, 8, c)
	require.Zero(t, skipped)
	require.Equal(t, 1.0, m.At(0, 0))
	require.Equal(t, 1.0, mat.Sum(m))
}

func TestTwoWindowsDistinctCells(t *testing.T) {
	m, _ := mustEncoder(t, 3).Encode([]byte("ACGT"))

	x1, y1, ok := fcgr.Coordinate([]byte("ACG"))
	require.True(t, ok)
	x2, y2, ok := fcgr.Coordinate([]byte("CGT"))
	require.True(t, ok)

	// A=00 C=01 G=10 T=11
	require.Equal(t, [2]int{0b001, 0b010}, [2]int{x1, y1})
	require.Equal(t, [2]int{0b011, 0b101}, [2]int{x2, y2})
	require.Equal(t, 1.0, m.At(x1, y1))
	require.Equal(t, 1.0, m.At(x2, y2))
	require.Equal(t, 2.0, mat.Sum(m))
}

func TestInvalidSymbolSkipsWindows(t *testing.T) {
	m, skipped := mustEncoder(t, 3).Encode([]byte("AANT"))
	require.Equal(t, 2, skipped)
	require.Zero(t, mat.Sum(m))

	m, skipped = mustEncoder(t, 2).Encode([]byte("ACNGT"))
	require.Equal(t, 2, skipped)
	require.Equal(t, 2.0, mat.Sum(m))
}

func TestShortSequenceIsZero(t *testing.T) {
	for k := 1; k <= 6; k++ {
		e := mustEncoder(t, k)
		for n := 0; n < k; n++ {
			m, skipped := e.Encode([]byte("ACGTAC")[:n])
			r, c := m.Dims()
			require.Equal(t, fcgr.Dim(k), r)
			require.Equal(t, fcgr.Dim(k), c)
			require.Zero(t, skipped)
			require.Zero(t, mat.Max(m), "k=%d n=%d", k, n)
		}
	}
}

func TestValidSequenceSumsToWindowCount(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for k := 1; k <= 8; k++ {
		e := mustEncoder(t, k)
		for trial := 0; trial < 5; trial++ {
			seq := randomSeq(r, k+r.Intn(400), "ACGT")
			m, skipped := e.Encode(seq)
			require.Zero(t, skipped)
			require.Equal(t, float64(len(seq)-k+1), mat.Sum(m))
		}
	}
}

func TestRollingMatchesNaive(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for k := 1; k <= 6; k++ {
		e := mustEncoder(t, k)
		for trial := 0; trial < 10; trial++ {
			seq := randomSeq(r, r.Intn(300), "ACGTACGTN-")
			got, _ := e.Encode(seq)
			require.True(t, mat.Equal(naive(seq, k), got), "k=%d seq=%s", k, seq)
		}
	}
}

func TestCoordinateIsBijection(t *testing.T) {
	for k := 1; k <= 5; k++ {
		dim := fcgr.Dim(k)
		seen := make(map[[2]int]string)
		for _, kmer := range allKmers(k) {
			x, y, ok := fcgr.Coordinate([]byte(kmer))
			require.True(t, ok)
			require.True(t, x >= 0 && x < dim && y >= 0 && y < dim)
			prev, dup := seen[[2]int{x, y}]
			require.False(t, dup, "%s and %s share a cell", prev, kmer)
			seen[[2]int{x, y}] = kmer

			require.Equal(t, kmer, fcgr.KmerAt(x, y, k))
		}
		require.Len(t, seen, dim*dim, "every cell reachable for k=%d", k)
	}
}

func TestCoordinateAgreesWithPackedCode(t *testing.T) {
	for _, kmer := range allKmers(4) {
		code, err := kmers.Encode([]byte(kmer))
		require.NoError(t, err)
		var x, y int
		for j := 3; j >= 0; j-- {
			x = x<<1 | int(code>>uint(2*j+1)&1)
			y = y<<1 | int(code>>uint(2*j)&1)
		}
		gx, gy, ok := fcgr.Coordinate([]byte(kmer))
		require.True(t, ok)
		require.Equal(t, [2]int{x, y}, [2]int{gx, gy}, kmer)
	}
}

func TestGridEncoder(t *testing.T) {
	g, err := fcgr.NewGridEncoder(3)
	require.NoError(t, err)
	r, c := g.Dims(0)
	require.Equal(t, 64, r)
	require.Equal(t, 64, c)

	m, skipped := g.Encode([]byte("ACGTN"))
	mr, mc := m.Dims()
	require.Equal(t, 64, mr)
	require.Equal(t, 64, mc)
	require.Equal(t, 1, skipped)
	// ACG -> row AC = 0*4+1, col G = 2; CGT -> row CG = 1*4+2, col T = 3
	require.Equal(t, 1.0, m.At(1, 2))
	require.Equal(t, 1.0, m.At(6, 3))
	require.Equal(t, 2.0, mat.Sum(m))
	require.Equal(t, "ACG", fcgr.GridKmerAt(1, 2, 3))
	require.Equal(t, "CGT", fcgr.GridKmerAt(6, 3, 3))
}

func TestGridEncoderCoversAllKmersOnce(t *testing.T) {
	g, err := fcgr.NewGridEncoder(3)
	require.NoError(t, err)
	for _, kmer := range allKmers(3) {
		m, _ := g.Encode([]byte(kmer))
		require.Equal(t, 1.0, mat.Sum(m))
		side := fcgr.GridSide(3)
		for row := 0; row < side; row++ {
			for col := 0; col < side; col++ {
				if m.At(row, col) == 0 {
					continue
				}
				require.Less(t, row, 16)
				require.Less(t, col, 4)
				require.Equal(t, kmer, fcgr.GridKmerAt(row, col, 3))
			}
		}
	}
}
