package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakeClockAdvanceAndSet(t *testing.T) {
	c := NewFakeClock()
	require.Equal(t, uint64(0), c.NowMS())

	c.Advance(50)
	require.Equal(t, uint64(50), c.NowMS())

	c.Set(1000)
	require.Equal(t, uint64(1000), c.NowMS())
}

func TestSystemClockIsMonotonicNonDecreasing(t *testing.T) {
	c := NewSystemClock()
	a := c.NowMS()
	b := c.NowMS()
	require.GreaterOrEqual(t, b, a)
}
