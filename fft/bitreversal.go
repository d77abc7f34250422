package fft

import "duocore/core"

// ApplyBitReversal permutes buf (interleaved Q15 real/imag samples) in
// place using a table produced by generateBitRevTable. Each pair (a, b)
// in the table is a pre-shifted word offset; shifting right by 2
// recovers the real-part offset of the two complex samples to swap.
//
// Applying the same table twice is the identity — the permutation is
// its own inverse, since swapping two elements twice restores them.
func ApplyBitReversal(buf []core.Q15, table []uint16) {
	for i := 0; i+1 < len(table); i += 2 {
		a := int(table[i]) >> 2
		b := int(table[i+1]) >> 2
		buf[a], buf[b] = buf[b], buf[a]
		buf[a+1], buf[b+1] = buf[b+1], buf[a+1]
	}
}
