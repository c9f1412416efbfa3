package alphabet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seq2img/tools/alphabet"
)

func TestCodeOfRoundTrip(t *testing.T) {
	for want, s := range []byte("ACGT") {
		c, ok := alphabet.CodeOf(s)
		require.True(t, ok, "symbol %c", s)
		require.Equal(t, uint8(want), c)

		back, ok := alphabet.SymbolOf(c)
		require.True(t, ok)
		require.Equal(t, s, back)
	}
}

func TestCodeOfRejectsOutsideAlphabet(t *testing.T) {
	for _, s := range []byte("NRYacgtn-*. ") {
		c, ok := alphabet.CodeOf(s)
		require.False(t, ok, "symbol %q must have no code", s)
		require.Equal(t, alphabet.NoCode, c)
	}
	_, ok := alphabet.SymbolOf(4)
	require.False(t, ok)
}

func TestValidAndFold(t *testing.T) {
	require.True(t, alphabet.Valid([]byte("ACGTTGCA")))
	require.True(t, alphabet.Valid(nil))
	require.False(t, alphabet.Valid([]byte("ACNT")))
	require.False(t, alphabet.Valid([]byte("acgt")))

	seq := alphabet.Fold([]byte("acgTn-x"))
	require.Equal(t, "ACGTN-X", string(seq))
	require.True(t, alphabet.Valid(seq[:4]))
}
