//go:build !tinygo

package shmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"duocore/core"
)

// hostRegion backs the shared-memory window with a real anonymous,
// shared mmap rather than a plain Go slice, so host-side tests exercise
// the same page-granular, cache-line-aligned semantics a physical SRAM
// window would have. This is the "shared region abstraction" the
// design notes call for, on a desktop build.
type hostRegion struct {
	layout Layout
	raw    []byte
}

// NewHostRegion allocates a new mmap-backed region and zeroes it.
func NewHostRegion(layout Layout) (Region, error) {
	raw, err := unix.Mmap(-1, 0, layout.total(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("shmem: mmap: %w", err)
	}
	for i := range raw {
		raw[i] = 0
	}
	return &hostRegion{layout: layout, raw: raw}, nil
}

func (r *hostRegion) Buffer(id uint8) []byte {
	if int(id) >= core.NumBuffers {
		return nil
	}
	off := int(id) * r.layout.BufferSize
	return r.raw[off : off+r.layout.BufferSize : off+r.layout.BufferSize]
}

func (r *hostRegion) ControlBlock() *core.ControlBlock {
	off := core.NumBuffers * r.layout.BufferSize
	return (*core.ControlBlock)(unsafe.Pointer(&r.raw[off]))
}

func (r *hostRegion) Close() error {
	if r.raw == nil {
		return nil
	}
	err := unix.Munmap(r.raw)
	r.raw = nil
	return err
}
