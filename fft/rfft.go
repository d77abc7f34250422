package fft

import "duocore/core"

// rfftScratch holds the half-length complex working buffer RFFT needs,
// sized for the largest supported real-FFT length. Reused across calls
// the same way topBinsScratch is in topbins.go: RFFT is therefore NOT
// reentrant, matching its single-producer-worker call site.
var rfftScratch [maxRealLen]core.Q15

// RFFTInit returns an RFFTInstance for a supported real-FFT length, or
// StatusInvalidSize if n is not one of SupportedSizes().
func RFFTInit(n uint32) (*RFFTInstance, Status) {
	if !isSupportedSize(n) {
		return nil, StatusInvalidSize
	}
	var cfft *CFFTInstance
	switch n {
	case 4096:
		cfft = cfft2048
	case 8192:
		cfft = cfft4096
	}
	return &RFFTInstance{
		FFTLenReal:        n,
		BitReverseFlag:    true,
		TwidCoefRModifier: maxRealLen / n,
		TwiddleA:          realCoefAQ15[:],
		TwiddleB:          realCoefBQ15[:],
		CFFT:              cfft,
	}, StatusOK
}

// RFFT computes the real-input forward FFT of src (length inst.FFTLenReal
// Q15 samples) into dst (length inst.FFTLenReal+2 Q15 words: FFTLenReal/2+1
// complex bins, DC and Nyquist bins carrying zero imaginary parts).
//
// The real samples are packed two-per-complex-sample into a length-N/2
// complex buffer, run through the embedded CFFT, bit-reversed back to
// natural order, then unpacked into N/2+1 real-input bins using the A/B
// coefficient tables — the standard "real FFT via half-length complex
// FFT" construction (remote/src/rfft_q15_simplified.h), generalized here
// to run over either of the two supported sizes via inst.CFFT.
func RFFT(inst *RFFTInstance, src []core.Q15, dst []core.Q15) Status {
	n := int(inst.FFTLenReal)
	if len(src) < n {
		return StatusInvalidSize
	}
	m := n / 2
	if len(dst) < n+2 {
		return StatusInvalidSize
	}

	work := rfftScratch[:2*m]
	copy(work, src[:2*m])

	CFFTQ15(work, inst.CFFT)
	if inst.BitReverseFlag {
		ApplyBitReversal(work, inst.CFFT.BitRevPairs)
	}

	mod := inst.TwidCoefRModifier

	z0r, z0i := work[0], work[1]
	dst[0], dst[1] = core.AddQ15(z0r, z0i), 0
	dst[n], dst[n+1] = core.SubQ15(z0r, z0i), 0

	for k := 1; k < m; k++ {
		kp := m - k
		zr, zi := work[2*k], work[2*k+1]
		zpr, zpi := work[2*kp], work[2*kp+1]

		idx := 2 * int(uint32(k)*mod)
		aR, aI := int64(inst.TwiddleA[idx]), int64(inst.TwiddleA[idx+1])
		bR, bI := int64(inst.TwiddleB[idx]), int64(inst.TwiddleB[idx+1])

		// X[k] = Z[k]*A[k] + conj(Z[M-k])*B[k]
		outR := int64(zr)*aR - int64(zi)*aI + int64(zpr)*bR + int64(zpi)*bI
		outI := int64(zi)*aR + int64(zr)*aI + int64(zpr)*bI - int64(zpi)*bR

		dst[2*k] = core.SaturateQ15(int32(outR >> 15))
		dst[2*k+1] = core.SaturateQ15(int32(outI >> 15))
	}

	return StatusOK
}
