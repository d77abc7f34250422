package fft

import "duocore/core"

// CFFTQ15 runs a forward, in-place, decimation-in-frequency complex FFT
// on buf (interleaved real/imag Q15 samples, length 2*inst.Len) using
// inst's twiddle table. Output is in bit-reversed order; callers that
// need natural frequency order must follow with ApplyBitReversal.
//
// Two structures are supported, selected by inst.Len:
//
//  1. inst.Len a power of four: a pure radix-4 DIF recursion, one stage
//     per factor of four, scaling each stage's outputs by 1/4 (spec.md
//     §4.3.2 bullet 1).
//  2. inst.Len = 2 * 4^k: one radix-4-by-2 preprocessing pass that folds
//     the length in half with a twiddle multiply, then two independent
//     radix-4 recursions over the halves, then a final 1/2 correction so
//     the combined attenuation still lands on 1/Len (bullet 2).
//
// Either way the output is attenuated by 1/Len relative to the unscaled
// DFT, the invariant every caller (RFFT, tests) relies on.
func CFFTQ15(buf []core.Q15, inst *CFFTInstance) {
	m := int(inst.Len)
	if isPowerOfFour(m) {
		radix4DIF(buf, 0, m, 1, inst.Twiddle)
		return
	}
	radix4by2DIF(buf, inst)
}

func isPowerOfFour(m int) bool {
	if m <= 0 || m&(m-1) != 0 {
		return false
	}
	return trailingZeros(m)%2 == 0
}

// radix4DIF recurses a radix-4 decimation-in-frequency FFT over the span
// of length cnt complex samples starting at byte-pair offset base within
// buf (base is an int16-array index, i.e. complex index base/2), using a
// twiddle table of full period tableLen = len(twiddle).
//
// cnt must be a power of four. At each level the four-way span is
// combined with the unscaled 4-point DFT butterfly (the same formula
// CWBudde's size-4 radix-4 kernel uses for N=4), then three of the four
// combined outputs are rotated by the twiddle power matching their
// output index before recursing into the next, quarter-sized span — the
// direct generalization of the textbook radix-2 DIF butterfly to a
// radix-4 split.
func radix4DIF(buf []core.Q15, base, cnt, stride int, twiddle []core.ComplexQ15) {
	if cnt == 1 {
		return
	}
	quarter := cnt / 4
	tableLen := len(twiddle)
	tablestep := tableLen / cnt

	for j := 0; j < quarter; j++ {
		i0 := base + 2*j
		i1 := i0 + 2*quarter
		i2 := i1 + 2*quarter
		i3 := i2 + 2*quarter

		ar, ai := buf[i0], buf[i0+1]
		br, bi := buf[i1], buf[i1+1]
		cr, ci := buf[i2], buf[i2+1]
		dr, di := buf[i3], buf[i3+1]

		t0r, t0i := int32(ar)+int32(cr), int32(ai)+int32(ci)
		t1r, t1i := int32(ar)-int32(cr), int32(ai)-int32(ci)
		t2r, t2i := int32(br)+int32(dr), int32(bi)+int32(di)
		t3r, t3i := int32(br)-int32(dr), int32(bi)-int32(di)
		// t3 * (-i) = (imag(t3), -real(t3))
		t3nir, t3nii := t3i, -t3r

		e0r, e0i := t0r+t2r, t0i+t2i
		e1r, e1i := t1r+t3nir, t1i+t3nii
		e2r, e2i := t0r-t2r, t0i-t2i
		e3r, e3i := t1r-t3nir, t1i-t3nii

		// Right-shift each by 2 (divide by 4) to keep headroom across
		// stages; the overall attenuation this leaves is exactly 1/cnt
		// once every stage down to cnt==4 has run.
		e0r, e0i = e0r>>2, e0i>>2
		e1r, e1i = e1r>>2, e1i>>2
		e2r, e2i = e2r>>2, e2i>>2
		e3r, e3i = e3r>>2, e3i>>2

		w1 := twiddleAt(twiddle, j*tablestep)
		w2 := twiddleAt(twiddle, j*tablestep*2)
		w3 := twiddleAt(twiddle, j*tablestep*3)

		// X2 goes to the second quarter and X1 to the third, so the
		// output ends up in the binary bit-reversed order ApplyBitReversal undoes.
		buf[i0], buf[i0+1] = core.SaturateQ15(e0r), core.SaturateQ15(e0i)
		buf[i1], buf[i1+1] = mulComplexQ15(core.SaturateQ15(e2r), core.SaturateQ15(e2i), w2)
		buf[i2], buf[i2+1] = mulComplexQ15(core.SaturateQ15(e1r), core.SaturateQ15(e1i), w1)
		buf[i3], buf[i3+1] = mulComplexQ15(core.SaturateQ15(e3r), core.SaturateQ15(e3i), w3)
	}

	radix4DIF(buf, base, quarter, stride*4, twiddle)
	radix4DIF(buf, base+2*quarter, quarter, stride*4, twiddle)
	radix4DIF(buf, base+4*quarter, quarter, stride*4, twiddle)
	radix4DIF(buf, base+6*quarter, quarter, stride*4, twiddle)
}

// radix4by2DIF handles inst.Len = 2 * 4^k: a single radix-2-style fold
// over the whole span, twiddle-multiplying the odd half, then two
// independent radix4DIF recursions over the two now-decoupled halves.
func radix4by2DIF(buf []core.Q15, inst *CFFTInstance) {
	m := int(inst.Len)
	half := m / 2
	twiddle := inst.Twiddle
	tableLen := len(twiddle)
	tablestep := tableLen / m

	for j := 0; j < half; j++ {
		i0 := 2 * j
		i1 := i0 + 2*half
		ar, ai := buf[i0], buf[i0+1]
		br, bi := buf[i1], buf[i1+1]

		sumR, sumI := core.AddQ15(ar, br), core.AddQ15(ai, bi)
		diffR, diffI := core.SubQ15(ar, br), core.SubQ15(ai, bi)
		w := twiddleAt(twiddle, j*tablestep)

		buf[i0], buf[i0+1] = sumR, sumI
		buf[i1], buf[i1+1] = mulComplexQ15(diffR, diffI, w)
	}

	radix4DIF(buf, 0, half, 1, twiddle)
	radix4DIF(buf, 2*half, half, 1, twiddle)

	// The fold above applied no attenuation of its own, while each half's
	// radix4DIF only attenuates by 1/half = 2/m; one final halving brings
	// the combined result to the uniform 1/m convention.
	for i := 0; i < 2*m; i++ {
		buf[i] = buf[i] >> 1
	}
}

func twiddleAt(table []core.ComplexQ15, idx int) core.ComplexQ15 {
	idx %= len(table)
	if idx < 0 {
		idx += len(table)
	}
	return table[idx]
}

// mulComplexQ15 multiplies (r, i) by w, both Q15, with each partial
// product computed in Q15 and the cross terms combined with saturation.
func mulComplexQ15(r, i core.Q15, w core.ComplexQ15) (core.Q15, core.Q15) {
	rr := core.SubQ15(core.MulQ15(r, w.Real), core.MulQ15(i, w.Imag))
	ii := core.AddQ15(core.MulQ15(r, w.Imag), core.MulQ15(i, w.Real))
	return rr, ii
}
