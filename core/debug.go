package core

import "strconv"

// DebugWriter is a function type for writing debug messages.
type DebugWriter func(string)

// EventKind names one kind of protocol transition worth remembering for
// post-mortem analysis. Unlike BufferState, which the CAS loop lives
// and dies by, EventKind only ever feeds the timing ring below — it has
// no bearing on correctness.
type EventKind uint8

const (
	EvtAcquireWrite EventKind = iota + 1 // acquire_for_write succeeded
	EvtCommit                            // commit (WRITING -> READY)
	EvtAcquireRead                       // acquire_for_read succeeded
	EvtRelease                           // release (READING -> IDLE)
	EvtOverrun                           // overrun_count incremented
	EvtTimeout                           // timeout_count incremented
	EvtDoorbell                          // doorbell fired/observed
)

func (k EventKind) String() string {
	switch k {
	case EvtAcquireWrite:
		return "ACQUIRE_WRITE"
	case EvtCommit:
		return "COMMIT"
	case EvtAcquireRead:
		return "ACQUIRE_READ"
	case EvtRelease:
		return "RELEASE"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtTimeout:
		return "TIMEOUT!"
	case EvtDoorbell:
		return "DOORBELL"
	default:
		return "UNKNOWN"
	}
}

// TimingEvent is one entry in the timing ring: a protocol transition,
// which buffer it touched (0xFF for protocol-wide events like overruns
// and timeouts, which aren't tied to one buffer), the clock reading at
// the time, and the counter value the transition produced — the
// write/read/overrun/timeout count, whichever applies to Kind.
type TimingEvent struct {
	Kind     EventKind
	BufferID uint8
	Clock    uint32
	Count    uint32
}

func (e TimingEvent) String() string {
	return "[TIMING] " + e.Kind.String() +
		" buf=" + strconv.Itoa(int(e.BufferID)) +
		" clock=" + strconv.Itoa(int(e.Clock)) +
		" count=" + strconv.Itoa(int(e.Count))
}

// timingRingDepth is how many events DumpTimingRing can ever show: the
// ring wraps and overwrites, trading history for a bounded footprint.
const timingRingDepth = 32

var (
	// debugPrintln is the global debug print function (can be set by platform code).
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active.
	// Disabled by default so it never perturbs timing-sensitive paths.
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem).
	timingRing     [timingRingDepth]TimingEvent
	timingRingHead uint8
	timingEnabled  bool = true

	// Async debug output channel.
	debugChan chan string
)

// asyncDebugQueueDepth bounds DebugAsync's channel; a full queue drops
// the message rather than blocking whatever hot path called it.
const asyncDebugQueueDepth = 16

// SetDebugWriter sets the platform-specific debug output function.
// This allows platforms to redirect debug output to UART, USB, stderr, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine.
// Call this from main() after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, asyncDebugQueueDepth)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Blocks if debug is enabled (use DebugAsync for non-blocking).
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Drops the message if the channel is full rather than blocking a hot path.
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordTiming captures a timing event in the ring buffer. Always
// non-blocking: it never allocates and never touches debugChan, so it
// is safe to call from inside AcquireForWrite/Commit/AcquireForRead/
// Release regardless of whether DebugAsync's consumer is keeping up.
func RecordTiming(kind EventKind, bufferID uint8, clock, count uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{Kind: kind, BufferID: bufferID, Clock: clock, Count: count}
	timingRingHead = (idx + 1) % timingRingDepth
}

// DumpTimingRing outputs the timing ring buffer, oldest entry first
// (call on an overrun alarm or before shutdown).
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")

	start := timingRingHead
	for i := uint8(0); i < timingRingDepth; i++ {
		idx := (start + i) % timingRingDepth
		evt := timingRing[idx]
		if evt.Kind == 0 {
			continue // slot never written
		}
		debugPrintln(evt.String())
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer.
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
