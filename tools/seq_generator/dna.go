package seq_generator

import (
	"math/rand"
)

// GenerateDNA returns a random DNA sequence with the requested GC fraction. Each base is replaced
// by 'N' with probability nRate.
func GenerateDNA(r *rand.Rand, length int, gcBias, nRate float64) []byte {
	cWeight := gcBias / 2
	aWeight := (1 - gcBias) / 2
	tWeight := aWeight // AT bias

	seq := make([]byte, length)
	for i := 0; i < length; i++ {
		if nRate > 0 && r.Float64() < nRate {
			seq[i] = 'N'
			continue
		}
		x := r.Float64()
		switch {
		case x < aWeight:
			seq[i] = 'A'
		case x < aWeight+tWeight:
			seq[i] = 'T'
		case x < aWeight+tWeight+cWeight:
			seq[i] = 'C'
		default:
			seq[i] = 'G'
		}
	}
	return seq
}
