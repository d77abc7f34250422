package fft

import "duocore/core"

// MaxTopBins bounds FindTopBins' output and its internal scratch size.
const MaxTopBins = 16

// Bin is one selected frequency bin: its index into the RFFT output and
// its (unnormalized) squared magnitude.
type Bin struct {
	Index     int
	MagSquare uint32
}

// topBinsScratch is reused across calls the way the teacher's hot paths
// avoid per-call heap allocation (core/scheduler.go's insertTimer walks a
// fixed list rather than allocating). FindTopBins is therefore NOT
// reentrant: only one call may be in flight at a time, matching its
// single-consumer-worker call site.
var topBinsScratch [MaxTopBins]Bin

// FindTopBins scans an RFFT output buffer (n/2+1 complex bins, Q15
// interleaved) and returns up to count bins ordered by descending squared
// magnitude, skipping bin 0 (DC) entirely. A count above MaxTopBins is
// lowered to MaxTopBins.
func FindTopBins(dst []core.Q15, numBins int, count int) []Bin {
	if count > MaxTopBins {
		count = MaxTopBins
	}
	scratch := topBinsScratch[:0]

	for bin := 1; bin < numBins; bin++ {
		re := int32(dst[2*bin])
		im := int32(dst[2*bin+1])
		mag := uint32(re*re + im*im)

		if len(scratch) < count {
			pos := insertPos(scratch, mag)
			scratch = append(scratch, Bin{})
			copy(scratch[pos+1:], scratch[pos:len(scratch)-1])
			scratch[pos] = Bin{Index: bin, MagSquare: mag}
		} else if mag > scratch[len(scratch)-1].MagSquare {
			pos := insertPos(scratch[:len(scratch)-1], mag)
			copy(scratch[pos+1:], scratch[pos:len(scratch)-1])
			scratch[pos] = Bin{Index: bin, MagSquare: mag}
		}
	}

	out := make([]Bin, len(scratch))
	copy(out, scratch)
	return out
}

// insertPos returns the index at which a bin of magnitude mag belongs in
// a slice already sorted by descending MagSquare.
func insertPos(sorted []Bin, mag uint32) int {
	for i, b := range sorted {
		if mag > b.MagSquare {
			return i
		}
	}
	return len(sorted)
}

// topBinsOutScratch holds the RFFT output FindTopBinsFromSamples drives
// internally, sized for the largest supported real-FFT length. Reused
// across calls for the same non-reentrant-static-scratch reason as
// topBinsScratch and rfftScratch.
var topBinsOutScratch [maxRealLen + 2]core.Q15

// FindTopBinsFromSamples is the named top-bin operation (spec.md
// §4.3.4/§6's find_fft_top_bins): given n raw Q15 samples, it runs the
// real FFT itself and returns up to count bins ordered by descending
// squared magnitude, skipping DC. It validates its arguments the way
// find_fft_top_bins does (remote/src/fft_utils.c) — input length must
// equal the FFT size, the size must be supported, and count must be in
// (0, n/2] — returning StatusInvalidSize rather than panicking on any
// violation. A count above MaxTopBins passes this check, but the result
// holds at most MaxTopBins bins.
func FindTopBinsFromSamples(src []core.Q15, n uint32, count int) ([]Bin, Status) {
	if !isSupportedSize(n) {
		return nil, StatusInvalidSize
	}
	if len(src) != int(n) {
		return nil, StatusInvalidSize
	}
	numBins := int(n)/2 + 1
	if count <= 0 || count > int(n)/2 {
		return nil, StatusInvalidSize
	}

	inst, status := RFFTInit(n)
	if status != StatusOK {
		return nil, status
	}

	dst := topBinsOutScratch[:n+2]
	if status := RFFT(inst, src, dst); status != StatusOK {
		return nil, status
	}

	return FindTopBins(dst, numBins, count), StatusOK
}

// DCMagSquare returns the squared magnitude of the DC bin (bin 0), whose
// imaginary part RFFT always leaves at zero.
func DCMagSquare(dst []core.Q15) uint32 {
	re := int32(dst[0])
	return uint32(re * re)
}

// NyquistMagSquare returns the squared magnitude of the Nyquist bin
// (bin n/2), whose imaginary part RFFT always leaves at zero.
func NyquistMagSquare(dst []core.Q15, n int) uint32 {
	re := int32(dst[n])
	return uint32(re * re)
}
