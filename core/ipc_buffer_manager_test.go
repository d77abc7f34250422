package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestBM(t *testing.T) (*BufferManager, *FakeClock) {
	t.Helper()
	data := [NumBuffers][]byte{make([]byte, 16), make([]byte, 16)}
	cb := &ControlBlock{}
	clock := NewFakeClock()
	bm := NewBufferManager(cb, data, nil, clock, Config{BufferSize: 16, TimeoutMS: 1000})
	require.NoError(t, bm.Initialize())
	return bm, clock
}

func TestInitializeIsIdempotent(t *testing.T) {
	bm, _ := newTestBM(t)
	require.NoError(t, bm.Initialize())
	require.Equal(t, StateIdle, bm.State(0))
	require.Equal(t, StateIdle, bm.State(1))
	require.Equal(t, Statistics{}, bm.Stats())
}

func TestAcquireForWriteAlternatesBuffersRoundRobin(t *testing.T) {
	bm, _ := newTestBM(t)

	h0, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h0))

	h1, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NotEqual(t, h0.ID, h1.ID, "consecutive acquires must alternate buffers")
}

func TestFullStateMachineRoundTrip(t *testing.T) {
	bm, _ := newTestBM(t)

	h, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.Equal(t, StateWriting, bm.State(h.ID))

	require.NoError(t, bm.Commit(h))
	require.Equal(t, StateReady, bm.State(h.ID))

	rh, err := bm.AcquireForRead(0)
	require.NoError(t, err)
	require.Equal(t, h.ID, rh.ID)
	require.Equal(t, StateReading, bm.State(rh.ID))

	require.NoError(t, bm.Release(rh))
	require.Equal(t, StateIdle, bm.State(rh.ID))
}

func TestCommitRejectsWrongState(t *testing.T) {
	bm, _ := newTestBM(t)
	h, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h))

	// Committing an already-committed handle must fail: it is no longer WRITING.
	require.Equal(t, StatusWrongState, bm.Commit(h))
}

func TestReleaseRejectsWrongState(t *testing.T) {
	bm, _ := newTestBM(t)
	h, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.Equal(t, StatusWrongState, bm.Release(h))
}

func TestAcquireForReadIsFIFOByCommitOrder(t *testing.T) {
	bm, clock := newTestBM(t)

	h0, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h0))

	clock.Advance(10)

	h1, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h1))

	first, err := bm.AcquireForRead(0)
	require.NoError(t, err)
	require.Equal(t, h0.ID, first.ID, "the earliest-committed buffer must be read first")
	require.NoError(t, bm.Release(first))

	second, err := bm.AcquireForRead(0)
	require.NoError(t, err)
	require.Equal(t, h1.ID, second.ID)
}

func TestAcquireForWriteTimesOutWhenBothBuffersHeld(t *testing.T) {
	bm, _ := newTestBM(t)

	_, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	_, err = bm.AcquireForWrite(time.Second)
	require.NoError(t, err)

	_, err = bm.AcquireForWrite(5 * time.Millisecond)
	require.Equal(t, StatusTimeout, err)
	require.Equal(t, uint32(1), bm.Stats().Timeouts)
}

func TestOverrunCountedAtMostOncePerAcquireCall(t *testing.T) {
	bm, _ := newTestBM(t)

	_, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	h1, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h1))

	_, err = bm.AcquireForWrite(20 * time.Millisecond)
	require.Equal(t, StatusTimeout, err)
	require.Equal(t, uint32(1), bm.Stats().Overruns, "a single stalled acquire call must count at most one overrun")
}

func TestAcquireForReadTimesOutWhenNothingReady(t *testing.T) {
	bm, _ := newTestBM(t)
	_, err := bm.AcquireForRead(5 * time.Millisecond)
	require.Equal(t, StatusTimeout, err)
}
