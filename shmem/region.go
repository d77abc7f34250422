// Package shmem is the single owning abstraction for the shared-memory
// window the producer and consumer communicate through. It is the only
// place in the repository that performs address arithmetic on that
// window; every other package receives typed views (a []byte per
// buffer, a *core.ControlBlock) carved out of a Region.
package shmem

import "duocore/core"

// Layout describes the shared-memory window: two equally sized data
// buffers followed by the Control Block, exactly as spec.md §6 lays
// them out. Offsets are relative to Config.SharedMemBase.
type Layout struct {
	BufferSize       int
	ControlBlockSize int
}

// DefaultLayout matches the corpus's simplified remote-core pipeline:
// two 64 KiB buffers and a 32 KiB control block.
func DefaultLayout() Layout {
	return Layout{BufferSize: 64 * 1024, ControlBlockSize: 32 * 1024}
}

func (l Layout) total() int {
	return l.BufferSize*core.NumBuffers + l.ControlBlockSize
}

// Region is a mapped shared-memory window split into its typed views.
// Implementations: a host-only mmap-backed region for development and
// tests (region_host.go) and a fixed-physical-address region for the
// tinygo build (region_tinygo.go).
type Region interface {
	// Buffer returns the data slice for the given buffer id (0 or 1).
	Buffer(id uint8) []byte
	// ControlBlock returns the single shared Control Block record.
	ControlBlock() *core.ControlBlock
	// Close releases any OS-level resources backing the region. The
	// tinygo build's Close is a no-op: a fixed physical mapping is
	// never unmapped.
	Close() error
}
