// Package alphabet maps the nucleotide alphabet {A, C, G, T} to the 2-bit codes {0, 1, 2, 3}.
// The mapping is fixed: every encoder in seq2img addresses matrix cells through it.
package alphabet

// NoCode is returned for any symbol outside the alphabet.
const NoCode uint8 = 0xFF

// Size is the number of symbols in the alphabet.
const Size = 4

// Symbols lists the alphabet in code order.
var Symbols = [Size]byte{'A', 'C', 'G', 'T'}

// Lookup table; callers fold to uppercase first, so lowercase stays unmapped.
var codes = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = NoCode
	}
	for c, s := range Symbols {
		t[s] = uint8(c)
	}
	return t
}()

// CodeOf returns the code of an uppercase symbol and whether it belongs to the alphabet.
func CodeOf(symbol byte) (uint8, bool) {
	c := codes[symbol]
	return c, c != NoCode
}

// SymbolOf is the inverse of CodeOf.
func SymbolOf(code uint8) (byte, bool) {
	if code >= Size {
		return 0, false
	}
	return Symbols[code], true
}

// Valid reports whether every symbol of window has a code.
func Valid(window []byte) bool {
	for _, s := range window {
		if codes[s] == NoCode {
			return false
		}
	}
	return true
}

// Fold uppercases ASCII letters in place and returns seq.
func Fold(seq []byte) []byte {
	for i, s := range seq {
		if 'a' <= s && s <= 'z' {
			seq[i] = s - ('a' - 'A')
		}
	}
	return seq
}
