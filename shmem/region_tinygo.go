//go:build tinygo

package shmem

import (
	"unsafe"

	"duocore/core"
)

// tinygoRegion maps the shared-memory window at a fixed physical base
// address, the way the teacher maps peripheral registers in
// targets/rp2040/clock.go. Only one side of the link calls NewTinygoRegion
// with a given base in a real deployment; both sides must agree on it
// out of band (linker script / device tree on a real board).
type tinygoRegion struct {
	layout Layout
	base   uintptr
}

// NewTinygoRegion maps the shared-memory window at base. It does not
// zero the window: on the producer side that would race the consumer;
// only the consumer's BufferManager.Initialize zeroes the Control Block.
func NewTinygoRegion(base uintptr, layout Layout) (Region, error) {
	return &tinygoRegion{layout: layout, base: base}, nil
}

func (r *tinygoRegion) Buffer(id uint8) []byte {
	if int(id) >= core.NumBuffers {
		return nil
	}
	off := uintptr(int(id) * r.layout.BufferSize)
	ptr := (*byte)(unsafe.Pointer(r.base + off))
	return unsafe.Slice(ptr, r.layout.BufferSize)
}

func (r *tinygoRegion) ControlBlock() *core.ControlBlock {
	off := uintptr(core.NumBuffers * r.layout.BufferSize)
	return (*core.ControlBlock)(unsafe.Pointer(r.base + off))
}

func (r *tinygoRegion) Close() error { return nil }
