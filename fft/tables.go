package fft

import (
	"math"

	"duocore/core"
)

// maxRealLen bounds the real-coefficient tables realCoefAQ15/realCoefBQ15:
// both are declared at the largest supported real-FFT length and shared by
// every smaller size through TwidCoefRModifier = maxRealLen/N, mirroring
// the original remote/src/rfft_init_q15.c table layout.
const maxRealLen = 8192

var (
	realCoefAQ15 [maxRealLen]core.Q15
	realCoefBQ15 [maxRealLen]core.Q15

	cfft2048 *CFFTInstance // backs the 4096-point RFFT
	cfft4096 *CFFTInstance // backs the 8192-point RFFT
)

func init() {
	generateRealCoefTables()
	cfft2048 = newCFFTInstance(2048)
	cfft4096 = newCFFTInstance(4096)
}

// generateRealCoefTables fills realCoefAQ15/B from the closed-form
// formulas in remote/src/rfft_init_q15.c rather than vendoring the
// literal CMSIS table data:
//
//	A[2i]   =  0.5 * (1 - sin(2*pi*i/N))
//	A[2i+1] = -0.5 * cos(2*pi*i/N)
//	B[2i]   =  0.5 * (1 + sin(2*pi*i/N))
//	B[2i+1] =  0.5 * cos(2*pi*i/N)
//
// for i = 0..N/2-1, N = maxRealLen. Smaller real-FFT sizes read this same
// table with a larger index stride (TwidCoefRModifier).
func generateRealCoefTables() {
	n := maxRealLen
	for i := 0; i < n/2; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		s, c := math.Sin(theta), math.Cos(theta)
		realCoefAQ15[2*i] = core.FloatToQ15(0.5 * (1 - s))
		realCoefAQ15[2*i+1] = core.FloatToQ15(-0.5 * c)
		realCoefBQ15[2*i] = core.FloatToQ15(0.5 * (1 + s))
		realCoefBQ15[2*i+1] = core.FloatToQ15(0.5 * c)
	}
}

// newCFFTInstance builds a CFFTInstance of length m (a power of two): a
// full-period twiddle table of cos/-sin Q15 pairs, plus the bit-reversal
// pair table used to unscramble the digit-reversed DIF output.
func newCFFTInstance(m int) *CFFTInstance {
	twiddle := make([]core.ComplexQ15, m)
	for k := 0; k < m; k++ {
		theta := 2 * math.Pi * float64(k) / float64(m)
		twiddle[k] = core.ComplexQ15{
			Real: core.FloatToQ15(math.Cos(theta)),
			Imag: core.FloatToQ15(-math.Sin(theta)),
		}
	}
	return &CFFTInstance{
		Len:         uint16(m),
		Twiddle:     twiddle,
		BitRevPairs: generateBitRevTable(m),
	}
}

// generateBitRevTable returns offset pairs (a, b) such that swapping the
// two complex samples at a and b undoes the bit-reversal the radix-4
// DIF butterfly left behind. Only pairs with a < b are emitted — applying
// the swap to every entry once is enough to fully permute the array
// (spec.md §4.3.5's "testable as an involution", property 9).
//
// Each stored value is a complex-sample index expressed as an int16-array
// word offset (index*2, since a sample is one real and one imaginary
// Q15 word) pre-shifted left by 2; ApplyBitReversal shifts right by 2 to
// recover the word offset before indexing. This mirrors the original
// remote/src/bit_reversal.c convention of pre-shifted table entries.
func generateBitRevTable(m int) []uint16 {
	bits := trailingZeros(m)
	var pairs []uint16
	for i := 0; i < m; i++ {
		j := reverseBits(i, bits)
		if j > i {
			pairs = append(pairs, uint16(i*2*4), uint16(j*2*4))
		}
	}
	return pairs
}

func reverseBits(v, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

func trailingZeros(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
