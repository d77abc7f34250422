package core

import (
	"sync/atomic"
	"time"
)

// pollBackoff is the pause between failed acquire attempts while
// polling for a slot. Short enough not to miss a hand-off by much,
// long enough not to spin-block a shared CPU indefinitely.
const pollBackoff = 100 * time.Microsecond

// BufferManager owns the two data buffers and the Control Block. It is
// the single encapsulating value for the ping-pong protocol's
// process-wide mutable state: every interaction with buffer ownership
// goes through its four operations, never through the Control Block's
// raw fields.
type BufferManager struct {
	cb       *ControlBlock
	data     [NumBuffers][]byte
	notifier Notifier
	clock    Clock
	cfg      Config

	lastUsed uint8 // producer-local round-robin cursor
}

// NewBufferManager wires a Control Block and the two buffer bodies
// (typically carved out of a shmem.Region) into a BufferManager. Call
// Initialize before first use.
func NewBufferManager(cb *ControlBlock, data [NumBuffers][]byte, notifier Notifier, clock Clock, cfg Config) *BufferManager {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	return &BufferManager{cb: cb, data: data, notifier: notifier, clock: clock, cfg: cfg}
}

// Initialize zeros the Control Block, sets both states to IDLE, raises
// consumer_ready, and issues a full memory fence. Calling it again from
// the same state yields the same observable Control Block (idempotent).
func (m *BufferManager) Initialize() error {
	for i := 0; i < NumBuffers; i++ {
		m.cb.states[i].v.Store(uint32(StateIdle))
		m.cb.writeCount[i].Store(0)
		m.cb.readCount[i].Store(0)
		m.cb.lastWriteTS[i].Store(0)
		m.cb.lastReadTS[i].Store(0)
		m.cb.acquireWriteTS[i].Store(0)
		m.cb.acquireReadTS[i].Store(0)
	}
	m.cb.overrunCount.Store(0)
	m.cb.timeoutCount.Store(0)
	m.cb.writeLatencyTotalMS.Store(0)
	m.cb.readLatencyTotalMS.Store(0)
	m.cb.maxLatencyMS.Store(0)
	m.cb.bufferSize = uint32(m.cfg.BufferSize)
	m.cb.timeoutMS = m.cfg.TimeoutMS
	m.cb.consumerReady.Store(1)
	m.lastUsed = NumBuffers - 1 // next round-robin pick is slot 0

	MemoryFenceFull()
	return nil
}

// AcquireForWrite implements the producer side's round-robin IDLE ->
// WRITING transition. It blocks, polling with a short back-off, until a
// slot becomes available or timeout elapses.
func (m *BufferManager) AcquireForWrite(timeout time.Duration) (BufferHandle, error) {
	deadline := time.Now().Add(timeout)
	overrunCounted := false

	for {
		for i := 0; i < NumBuffers; i++ {
			id := uint8((int(m.lastUsed) + 1 + i) % NumBuffers)
			state := &m.cb.states[id]
			if state.v.CompareAndSwap(uint32(StateIdle), uint32(StateWriting)) {
				m.lastUsed = id
				m.cb.acquireWriteTS[id].Store(m.clock.NowMS())
				RecordTiming(EvtAcquireWrite, id, uint32(m.clock.NowMS()), m.cb.writeCount[id].Load())
				return BufferHandle{ID: id, Data: m.data[id], Size: len(m.data[id]), state: state}, nil
			}
		}

		if !overrunCounted && m.bothNonIdle() {
			m.cb.overrunCount.Add(1)
			overrunCounted = true
			RecordTiming(EvtOverrun, 0xFF, uint32(m.clock.NowMS()), m.cb.overrunCount.Load())
		}

		if timeout <= 0 || time.Now().After(deadline) {
			m.cb.timeoutCount.Add(1)
			RecordTiming(EvtTimeout, 0xFF, uint32(m.clock.NowMS()), m.cb.timeoutCount.Load())
			return BufferHandle{}, StatusTimeout
		}
		time.Sleep(pollBackoff)
	}
}

func (m *BufferManager) bothNonIdle() bool {
	for i := 0; i < NumBuffers; i++ {
		if BufferState(m.cb.states[i].v.Load()) == StateIdle {
			return false
		}
	}
	return true
}

// Commit implements the producer side's WRITING -> READY transition,
// then notifies the consumer. Notification failure is logged but never
// fails the commit: the protocol is self-healing because the state is
// already READY and will be observed on the next doorbell or poll.
func (m *BufferManager) Commit(h BufferHandle) error {
	if !h.state.v.CompareAndSwap(uint32(StateWriting), uint32(StateReady)) {
		return StatusWrongState
	}

	now := m.clock.NowMS()
	wc := m.cb.writeCount[h.ID].Add(1)
	m.cb.lastWriteTS[h.ID].Store(now)
	latency := now - m.cb.acquireWriteTS[h.ID].Load()
	m.cb.writeLatencyTotalMS.Add(latency)
	raiseMaxLatency(&m.cb.maxLatencyMS, latency)
	RecordTiming(EvtCommit, h.ID, uint32(now), wc)

	MemoryFenceFull()

	if err := m.notifier.NotifyConsumer(); err != nil {
		DebugPrintln("commit: notify consumer failed: " + err.Error())
	}
	return nil
}

// AcquireForRead implements the consumer side's READY -> READING
// transition. Among READY buffers it picks the one with the smallest
// commit timestamp (FIFO), breaking ties by ascending buffer id.
func (m *BufferManager) AcquireForRead(timeout time.Duration) (BufferHandle, error) {
	deadline := time.Now().Add(timeout)

	for {
		if h, ok := m.tryAcquireForRead(); ok {
			return h, nil
		}

		if timeout <= 0 || time.Now().After(deadline) {
			m.cb.timeoutCount.Add(1)
			RecordTiming(EvtTimeout, 0xFF, uint32(m.clock.NowMS()), m.cb.timeoutCount.Load())
			return BufferHandle{}, StatusTimeout
		}
		time.Sleep(pollBackoff)
	}
}

func (m *BufferManager) tryAcquireForRead() (BufferHandle, bool) {
	best := -1
	var bestTS uint64

	for i := 0; i < NumBuffers; i++ {
		if BufferState(m.cb.states[i].v.Load()) != StateReady {
			continue
		}
		ts := m.cb.lastWriteTS[i].Load()
		if best == -1 || ts < bestTS {
			best = i
			bestTS = ts
		}
	}
	if best == -1 {
		return BufferHandle{}, false
	}

	id := uint8(best)
	state := &m.cb.states[id]
	if !state.v.CompareAndSwap(uint32(StateReady), uint32(StateReading)) {
		// Lost a race (shouldn't happen: only the consumer transitions
		// out of READY); caller will retry on the next poll.
		return BufferHandle{}, false
	}
	m.cb.acquireReadTS[id].Store(m.clock.NowMS())
	RecordTiming(EvtAcquireRead, id, uint32(m.clock.NowMS()), m.cb.readCount[id].Load())
	return BufferHandle{ID: id, Data: m.data[id], Size: len(m.data[id]), state: state}, true
}

// Release implements the consumer side's READING -> IDLE transition,
// then notifies the producer.
func (m *BufferManager) Release(h BufferHandle) error {
	if !h.state.v.CompareAndSwap(uint32(StateReading), uint32(StateIdle)) {
		return StatusWrongState
	}

	now := m.clock.NowMS()
	rc := m.cb.readCount[h.ID].Add(1)
	m.cb.lastReadTS[h.ID].Store(now)
	latency := now - m.cb.acquireReadTS[h.ID].Load()
	m.cb.readLatencyTotalMS.Add(latency)
	raiseMaxLatency(&m.cb.maxLatencyMS, latency)
	RecordTiming(EvtRelease, h.ID, uint32(now), rc)

	MemoryFenceFull()

	if err := m.notifier.NotifyProducer(); err != nil {
		DebugPrintln("release: notify producer failed: " + err.Error())
	}
	return nil
}

// State returns the current state of the given buffer id (atomic load,
// for tests and diagnostics only — production code should rely on the
// four operations above, never inspect state directly).
func (m *BufferManager) State(id uint8) BufferState {
	if int(id) >= NumBuffers {
		return StateIdle
	}
	return BufferState(m.cb.states[id].v.Load())
}

// raiseMaxLatency stores v into max if v is larger, retrying on a lost
// CAS race instead of taking a lock for what is otherwise a one-word
// update.
func raiseMaxLatency(max *atomic.Uint64, v uint64) {
	for {
		cur := max.Load()
		if v <= cur {
			return
		}
		if max.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Stats returns a snapshot of all counters and derived latency metrics.
func (m *BufferManager) Stats() Statistics {
	var s Statistics
	for i := 0; i < NumBuffers; i++ {
		s.Writes[i] = m.cb.writeCount[i].Load()
		s.Reads[i] = m.cb.readCount[i].Load()
		s.LastWriteTS[i] = m.cb.lastWriteTS[i].Load()
		s.LastReadTS[i] = m.cb.lastReadTS[i].Load()
	}
	s.Overruns = m.cb.overrunCount.Load()
	s.Timeouts = m.cb.timeoutCount.Load()

	writes := s.Writes[0] + s.Writes[1]
	reads := s.Reads[0] + s.Reads[1]
	if writes > 0 {
		s.AvgWriteLatencyMS = m.cb.writeLatencyTotalMS.Load() / uint64(writes)
	}
	if reads > 0 {
		s.AvgReadLatencyMS = m.cb.readLatencyTotalMS.Load() / uint64(reads)
	}
	s.MaxLatencyMS = m.cb.maxLatencyMS.Load()
	return s
}
