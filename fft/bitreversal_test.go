package fft

import (
	"testing"

	"duocore/core"
	"github.com/stretchr/testify/require"
)

func TestBitReversalIsInvolution(t *testing.T) {
	inst := cfft2048
	buf := make([]core.Q15, 2*int(inst.Len))
	for i := range buf {
		buf[i] = core.Q15(i * 7 % 1000)
	}
	original := append([]core.Q15(nil), buf...)

	ApplyBitReversal(buf, inst.BitRevPairs)
	require.NotEqual(t, original, buf, "a non-trivial table should change the buffer")

	ApplyBitReversal(buf, inst.BitRevPairs)
	require.Equal(t, original, buf, "applying the permutation twice must restore the original order")
}

func TestBitRevTablePairsAreDistinct(t *testing.T) {
	table := generateBitRevTable(64)
	seen := make(map[uint16]bool)
	for _, v := range table {
		require.False(t, seen[v], "offset %d appears twice in the table", v)
		seen[v] = true
	}
}
