package consumer

import (
	"testing"
	"time"

	"duocore/core"
	"github.com/stretchr/testify/require"
)

func newTestBufferManager(t *testing.T, bufSize int) *core.BufferManager {
	t.Helper()
	data := [core.NumBuffers][]byte{make([]byte, bufSize), make([]byte, bufSize)}
	cb := &core.ControlBlock{}
	bm := core.NewBufferManager(cb, data, nil, core.NewFakeClock(), core.Config{BufferSize: bufSize, TimeoutMS: 1000})
	require.NoError(t, bm.Initialize())
	return bm
}

func TestDrainProcessesAllReadyBuffers(t *testing.T) {
	bm := newTestBufferManager(t, 16)

	h0, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h0))
	h1, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h1))

	var seen []uint8
	c := New(bm, func(id uint8, data []byte) { seen = append(seen, id) })
	c.Drain()

	require.Len(t, seen, 2)
	require.Equal(t, core.StateIdle, bm.State(0))
	require.Equal(t, core.StateIdle, bm.State(1))
}

func TestDrainIsNoopWhenNothingReady(t *testing.T) {
	bm := newTestBufferManager(t, 16)
	called := false
	c := New(bm, func(id uint8, data []byte) { called = true })
	c.Drain()
	require.False(t, called)
}

func TestNotifyWakesRun(t *testing.T) {
	bm := newTestBufferManager(t, 16)
	processed := make(chan uint8, 1)
	c := New(bm, func(id uint8, data []byte) { processed <- id })

	stop := make(chan struct{})
	go c.Run(time.Hour, stop)
	defer close(stop)

	h, err := bm.AcquireForWrite(time.Second)
	require.NoError(t, err)
	require.NoError(t, bm.Commit(h))
	c.Notify()

	select {
	case id := <-processed:
		require.Equal(t, h.ID, id)
	case <-time.After(time.Second):
		t.Fatal("consumer did not process buffer after Notify")
	}
}
