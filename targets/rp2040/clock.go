//go:build tinygo && (rp2040 || rp2350)

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040/RP2350 Timer peripheral memory map. Register offsets carried
// over verbatim from the teacher's targets/rp2040/clock.go: a hardware
// fact, not protocol logic, so there is nothing to adapt here.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// hardwareUptimeUS reads the RP2040's free-running 64-bit microsecond
// timer. Reads high, then low, then high again and retries on mismatch
// to avoid the rollover race between the two 32-bit halves, exactly as
// the teacher's GetHardwareUptime does.
func hardwareUptimeUS() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// boardClock implements core.Clock (spec.md §6's time.monotonic_ms())
// over the RP2040 hardware timer. Each core constructs its own
// boardClock; the spec requires the clock be "free-running, independent
// per side" and there is no cross-core state here to share.
type boardClock struct{}

func (boardClock) NowMS() uint64 { return hardwareUptimeUS() / 1000 }
