//go:build tinygo && (rp2040 || rp2350)

package core

import "device/arm"

// MemoryFenceFull issues a full memory barrier: every preceding load and
// store (to the shared buffers and the control block) is made globally
// visible to the peer core before this call returns. Commit and Release
// call it after their WRITING->READY / READING->IDLE transition, and
// mailbox.Notifier calls it again right before triggering the peer's
// doorbell.
func MemoryFenceFull() {
	arm.Asm("dmb sy")
}

// MemoryFenceWrite orders preceding stores against subsequent stores,
// without waiting on loads. Used where only write visibility matters.
func MemoryFenceWrite() {
	arm.Asm("dmb st")
}
