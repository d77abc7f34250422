package core

import "sync/atomic"

// Status is the core's error-code type. It implements error so callers
// can use normal Go error handling, while still round-tripping through
// the small fixed vocabulary spec.md §7 requires.
type Status int

const (
	StatusOK Status = iota
	StatusInvalid
	StatusInvalidSize
	StatusWrongState
	StatusTimeout
	// StatusOverrun is never returned directly by an operation; it exists
	// only so the vocabulary of error kinds is complete and so tests can
	// name it. Overruns are observed via Statistics.Overruns.
	StatusOverrun
	StatusInit
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalid:
		return "invalid argument"
	case StatusInvalidSize:
		return "invalid size"
	case StatusWrongState:
		return "wrong state"
	case StatusTimeout:
		return "timeout"
	case StatusOverrun:
		return "overrun"
	case StatusInit:
		return "initialization precondition not met"
	default:
		return "unknown status"
	}
}

// BufferState is one of the four legal ownership states of a buffer.
// Stored as a 32-bit word so it can be the operand of an atomic CAS.
type BufferState uint32

const (
	StateIdle BufferState = iota
	StateWriting
	StateReady
	StateReading
)

func (s BufferState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWriting:
		return "WRITING"
	case StateReady:
		return "READY"
	case StateReading:
		return "READING"
	default:
		return "UNKNOWN"
	}
}

// NumBuffers is fixed at two: this is a ping-pong scheme, not a ring of
// N. Dynamic buffer resizing and more than two in-flight buffers are
// explicit non-goals.
const NumBuffers = 2

// cacheLinePaddedState holds one buffer's state word, padded so each of
// the two states lives on its own cache line when the target requires
// it (spec.md §3's "Control Block" layout note; 64 bytes is the common
// Cortex-M/RISC-V cache-line size used in the retrieved hardware
// sources).
type cacheLinePaddedState struct {
	v atomic.Uint32
	_ [60]byte
}

// ControlBlock is the single shared record describing both buffers'
// ownership state, transfer counters, timestamps, and configuration.
// Its field layout must be agreed byte-for-byte between the producer
// and consumer builds (spec.md §6); nothing here may be reordered
// without also updating the producer-side equivalent definition.
type ControlBlock struct {
	states [NumBuffers]cacheLinePaddedState

	writeCount [NumBuffers]atomic.Uint32
	readCount  [NumBuffers]atomic.Uint32

	overrunCount atomic.Uint32
	timeoutCount atomic.Uint32

	lastWriteTS [NumBuffers]atomic.Uint64
	lastReadTS  [NumBuffers]atomic.Uint64

	// acquireWriteTS/acquireReadTS mark when each side last took
	// ownership of a buffer, so commit/release can derive how long that
	// side actually held it — the write/read latency buffer_stats_t
	// reports, as opposed to lastWriteTS/lastReadTS's hand-off instants.
	acquireWriteTS [NumBuffers]atomic.Uint64
	acquireReadTS  [NumBuffers]atomic.Uint64

	writeLatencyTotalMS atomic.Uint64
	readLatencyTotalMS  atomic.Uint64
	maxLatencyMS        atomic.Uint64

	consumerReady atomic.Uint32

	bufferSize uint32
	timeoutMS  uint32

	_ [31744]byte // reserved, matches the original control_block_t's padding
}

// BufferHandle is returned by acquire_for_write/acquire_for_read. It
// carries the zero-copy data view directly; callers read/write the
// region through Data, never through a raw address.
type BufferHandle struct {
	ID    uint8
	Data  []byte
	Size  int
	state *cacheLinePaddedState
}

// Statistics is a point-in-time snapshot of all Control Block counters
// plus derived latency metrics, matching buffer_stats_t in the source
// this spec was distilled from: AvgWriteLatencyMS/AvgReadLatencyMS are
// this repo's equivalent of avg_write_latency_us/avg_read_latency_us —
// how long each side actually held a buffer between acquiring it and
// handing it back — and MaxLatencyMS is max_latency_us, the worst of
// either across the run. The unit is milliseconds rather than
// microseconds because Clock (clock.go) only resolves to the
// millisecond, the same resolution every other timestamp in this
// struct already uses.
type Statistics struct {
	Writes            [NumBuffers]uint32
	Reads             [NumBuffers]uint32
	LastWriteTS       [NumBuffers]uint64
	LastReadTS        [NumBuffers]uint64
	Overruns          uint32
	Timeouts          uint32
	AvgWriteLatencyMS uint64
	AvgReadLatencyMS  uint64
	MaxLatencyMS      uint64
}

// Config configures a BufferManager. There is no persisted state or
// CLI/env var surface in this core; every field is set at construction.
type Config struct {
	// SharedMemBase is where the region would be mapped on a real
	// deployment. Two values appear in the sources this repo is
	// grounded on (0x20010000 and 0x2F000000); both sides of a
	// deployment must agree on one.
	SharedMemBase uintptr
	BufferSize    int
	TimeoutMS     uint32
}

// DefaultConfig returns the configuration used by the simplified
// remote-core FFT pipeline in the corpus this was grounded on.
func DefaultConfig() Config {
	return Config{
		SharedMemBase: 0x2F000000,
		BufferSize:    64 * 1024,
		TimeoutMS:     1000,
	}
}
