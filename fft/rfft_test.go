package fft

import (
	"math"
	"testing"

	"duocore/core"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

func toneSignal(n, cyclesPerWindow int) []core.Q15 {
	out := make([]core.Q15, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(cyclesPerWindow) * float64(i) / float64(n)
		out[i] = core.FloatToQ15(0.5 * math.Sin(theta))
	}
	return out
}

func TestRFFTInitRejectsUnsupportedSize(t *testing.T) {
	_, status := RFFTInit(1000)
	require.Equal(t, StatusInvalidSize, status)
}

func TestRFFTInitSupportsDocumentedSizes(t *testing.T) {
	for _, n := range SupportedSizes() {
		inst, status := RFFTInit(n)
		require.Equal(t, StatusOK, status)
		require.NotNil(t, inst)
		require.Equal(t, n, inst.FFTLenReal)
	}
}

func TestRFFTDCAndNyquistBinsAreReal(t *testing.T) {
	inst, status := RFFTInit(4096)
	require.Equal(t, StatusOK, status)

	src := toneSignal(4096, 3)
	dst := make([]core.Q15, 4096+2)
	require.Equal(t, StatusOK, RFFT(inst, src, dst))

	require.Equal(t, core.Q15(0), dst[1], "DC bin must carry zero imaginary part")
	require.Equal(t, core.Q15(0), dst[4096+1], "Nyquist bin must carry zero imaginary part")
}

func TestRFFTConcentratesSingleToneEnergy(t *testing.T) {
	inst, status := RFFTInit(4096)
	require.Equal(t, StatusOK, status)

	const cycles = 17
	src := toneSignal(4096, cycles)
	dst := make([]core.Q15, 4096+2)
	require.Equal(t, StatusOK, RFFT(inst, src, dst))

	numBins := 4096/2 + 1
	top := FindTopBins(dst, numBins, 4)
	require.NotEmpty(t, top)
	require.Equal(t, cycles, top[0].Index, "the loudest non-DC bin must be the tone's own bin")

	var total uint64
	for b := 0; b < numBins; b++ {
		re := int64(dst[2*b])
		im := int64(dst[2*b+1])
		total += uint64(re*re + im*im)
	}
	require.Greater(t, uint64(top[0].MagSquare)*2, total, "the tone bin should hold more than half the spectrum's energy")
}

// TestRFFTMatchesFloatingReferenceOrdering cross-checks bin ordering
// against gonum's float64 FFT: a scale-invariant property (which bin is
// loudest) that holds regardless of this pipeline's fixed-point scaling
// convention.
func TestRFFTMatchesFloatingReferenceOrdering(t *testing.T) {
	const n = 4096
	const cycles = 40

	srcF := make([]float64, n)
	srcQ := toneSignal(n, cycles)
	for i := range srcQ {
		srcF[i] = core.Q15ToFloat(srcQ[i])
	}

	fft := fourier.NewFFT(n)
	refCoeffs := fft.Coefficients(nil, srcF)

	refPeakBin, refPeakMag := 0, 0.0
	for k := 1; k < n/2+1; k++ {
		mag := real(refCoeffs[k])*real(refCoeffs[k]) + imag(refCoeffs[k])*imag(refCoeffs[k])
		if mag > refPeakMag {
			refPeakMag, refPeakBin = mag, k
		}
	}

	top, status := FindTopBinsFromSamples(srcQ, n, 1)
	require.Equal(t, StatusOK, status)
	require.Len(t, top, 1)
	require.Equal(t, refPeakBin, top[0].Index, "fixed-point and floating references must agree on the loudest bin")
}

func TestFindTopBinsFromSamplesRejectsMismatchedLength(t *testing.T) {
	src := make([]core.Q15, 4096)
	_, status := FindTopBinsFromSamples(src[:4000], 4096, 1)
	require.Equal(t, StatusInvalidSize, status)
}

func TestFindTopBinsFromSamplesRejectsUnsupportedSize(t *testing.T) {
	src := make([]core.Q15, 1000)
	_, status := FindTopBinsFromSamples(src, 1000, 1)
	require.Equal(t, StatusInvalidSize, status)
}

func TestFindTopBinsFromSamplesRejectsOutOfRangeCount(t *testing.T) {
	src := make([]core.Q15, 4096)
	_, status := FindTopBinsFromSamples(src, 4096, 0)
	require.Equal(t, StatusInvalidSize, status)

	_, status = FindTopBinsFromSamples(src, 4096, 4096/2+1)
	require.Equal(t, StatusInvalidSize, status)
}

func TestFindTopBinsSkipsDCAndOrdersDescending(t *testing.T) {
	dst := make([]core.Q15, 20)
	dst[0] = 30000 // DC, must never appear in results
	dst[2*3], dst[2*3+1] = 100, 0
	dst[2*5], dst[2*5+1] = 5000, 0
	dst[2*7], dst[2*7+1] = 1000, 0

	top := FindTopBins(dst, 10, 3)
	require.Len(t, top, 3)
	require.Equal(t, 5, top[0].Index)
	require.Equal(t, 7, top[1].Index)
	require.Equal(t, 3, top[2].Index)
	for _, b := range top {
		require.NotEqual(t, 0, b.Index)
	}
}
