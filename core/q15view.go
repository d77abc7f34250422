package core

import "unsafe"

// BytesAsQ15 reinterprets a shared-memory buffer's raw bytes as a slice
// of Q15 samples in place, the same unsafe-pointer aliasing shmem's
// region implementations use to overlay typed views on a raw mapping.
// Callers that fill or read a BufferHandle's Data always go through this
// single choke point rather than hand-rolling their own byte packing.
func BytesAsQ15(b []byte) []Q15 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*Q15)(unsafe.Pointer(&b[0])), len(b)/2)
}
