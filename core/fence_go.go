//go:build !tinygo

package core

// MemoryFenceFull is a no-op on the host build: every load/store this
// repository performs on shared state already goes through sync/atomic,
// which the Go memory model guarantees is sequentially consistent across
// goroutines without a separate fence instruction. The call is kept so
// the producer/consumer control flow is identical to the tinygo build
// (fence, then notify) and the host build can be used to test that
// ordering contract end to end.
func MemoryFenceFull() {}

// MemoryFenceWrite is a no-op on the host build; see MemoryFenceFull.
func MemoryFenceWrite() {}
