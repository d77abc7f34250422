package fft

import (
	"math"
	"testing"

	"duocore/core"
	"github.com/stretchr/testify/require"
)

// toneBuffer fills an interleaved Q15 complex buffer with a single
// complex exponential at bin targetBin of an m-point transform, which a
// correct forward FFT must concentrate entirely into that one bin.
func toneBuffer(m, targetBin int) []core.Q15 {
	buf := make([]core.Q15, 2*m)
	for n := 0; n < m; n++ {
		theta := 2 * math.Pi * float64(targetBin) * float64(n) / float64(m)
		buf[2*n] = core.FloatToQ15(0.5 * math.Cos(theta))
		buf[2*n+1] = core.FloatToQ15(0.5 * math.Sin(theta))
	}
	return buf
}

func magSquare(buf []core.Q15, k int) int64 {
	re := int64(buf[2*k])
	im := int64(buf[2*k+1])
	return re*re + im*im
}

func TestCFFTConcentratesSingleTonePowerRadix4(t *testing.T) {
	// 2048 = 4^5.5 is not itself a power of four; use the radix4by2 path's
	// pure-radix-4 half size instead to isolate the radix4DIF kernel.
	m := 1024 // 4^5
	inst := &CFFTInstance{
		Len:         uint16(m),
		Twiddle:     makeTwiddleForLen(m),
		BitRevPairs: generateBitRevTable(m),
	}

	targetBin := 5
	buf := toneBuffer(m, targetBin)
	CFFTQ15(buf, inst)
	ApplyBitReversal(buf, inst.BitRevPairs)

	peakBin, peakMag := 0, int64(0)
	var total int64
	for k := 0; k < m; k++ {
		mag := magSquare(buf, k)
		total += mag
		if mag > peakMag {
			peakMag, peakBin = mag, k
		}
	}

	require.Equal(t, targetBin, peakBin, "a single complex tone must peak at its own bin")
	require.Greater(t, peakMag, total*9/10, "single-tone energy should concentrate almost entirely in one bin")
}

func TestCFFTRadix4By2PathConcentratesTone(t *testing.T) {
	inst := cfft2048 // 2048 = 2 * 4^5
	targetBin := 11
	buf := toneBuffer(int(inst.Len), targetBin)
	CFFTQ15(buf, inst)
	ApplyBitReversal(buf, inst.BitRevPairs)

	peakBin, peakMag := 0, int64(0)
	for k := 0; k < int(inst.Len); k++ {
		mag := magSquare(buf, k)
		if mag > peakMag {
			peakMag, peakBin = mag, k
		}
	}
	require.Equal(t, targetBin, peakBin)
}

func makeTwiddleForLen(m int) []core.ComplexQ15 {
	out := make([]core.ComplexQ15, m)
	for k := 0; k < m; k++ {
		theta := 2 * math.Pi * float64(k) / float64(m)
		out[k] = core.ComplexQ15{
			Real: core.FloatToQ15(math.Cos(theta)),
			Imag: core.FloatToQ15(-math.Sin(theta)),
		}
	}
	return out
}
