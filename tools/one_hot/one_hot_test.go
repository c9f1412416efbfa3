package one_hot_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"seq2img/tools/alphabet"
	"seq2img/tools/one_hot"
)

func TestEncodeACGT(t *testing.T) {
	m, skipped := one_hot.Encode([]byte("ACGT"))
	require.Zero(t, skipped)
	want := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	require.True(t, mat.Equal(want, m))
}

func TestEachColumnHasSingleOne(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	seq := make([]byte, 500)
	for i := range seq {
		seq[i] = alphabet.Symbols[r.Intn(alphabet.Size)]
	}
	m, skipped := one_hot.Encode(seq)
	require.Zero(t, skipped)

	rows, cols := m.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, len(seq), cols)
	for i := 0; i < cols; i++ {
		code, _ := alphabet.CodeOf(seq[i])
		require.Equal(t, 1.0, mat.Sum(m.ColView(i)), "column %d", i)
		require.Equal(t, 1.0, m.At(int(code), i), "column %d", i)
	}
}

func TestInvalidSymbolZeroFillsColumn(t *testing.T) {
	m, skipped := one_hot.Encode([]byte("ANT"))
	require.Equal(t, 1, skipped)
	_, cols := m.Dims()
	require.Equal(t, 3, cols, "positions keep their alignment")
	require.Zero(t, mat.Sum(m.ColView(1)))
	require.Equal(t, 1.0, m.At(0, 0))
	require.Equal(t, 1.0, m.At(3, 2))
}

func TestEmptySequence(t *testing.T) {
	m, skipped := one_hot.Encode(nil)
	require.Zero(t, skipped)
	require.True(t, m.IsEmpty())

	r, c := one_hot.Encoder{}.Dims(7)
	require.Equal(t, [2]int{4, 7}, [2]int{r, c})
}
