// Package consumer drives the read side of the ping-pong protocol: a
// minimal doorbell handler that only wakes a worker, and a worker loop
// that does the actual buffer processing out of interrupt context
// (spec.md §9's "ISR bodies stay minimal" design note).
package consumer

import (
	"time"

	"duocore/core"
)

// Handler is called once per acquired buffer with its raw bytes. The
// buffer's Q15 view is available via core.BytesAsQ15(data) for handlers
// that expect samples or FFT bins rather than raw bytes.
type Handler func(id uint8, data []byte)

// Consumer owns the read side of a core.BufferManager.
type Consumer struct {
	bm      *core.BufferManager
	handler Handler
	wake    chan struct{}
}

// New builds a Consumer around bm, dispatching handler for each buffer
// Run or Drain acquires.
func New(bm *core.BufferManager, handler Handler) *Consumer {
	return &Consumer{bm: bm, handler: handler, wake: make(chan struct{}, 1)}
}

// Notify is the doorbell callback: it must do nothing but wake Run's
// worker loop. Register it with mailbox.NewNotifier's onConsumerDoorbell
// argument.
func (c *Consumer) Notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Drain processes every currently READY buffer without blocking, then
// returns. Used by both Run's woken path and tests that want synchronous
// control.
func (c *Consumer) Drain() {
	for {
		h, err := c.bm.AcquireForRead(0)
		if err != nil {
			return
		}
		c.handler(h.ID, h.Data)
		if err := c.bm.Release(h); err != nil {
			core.DebugPrintln("consumer release: " + err.Error())
		}
	}
}

// Run blocks, draining on every doorbell wake-up and also on a periodic
// fallback poll (so a lost or coalesced doorbell never stalls the
// consumer indefinitely), until stop is closed.
func (c *Consumer) Run(fallbackPoll time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(fallbackPoll)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.wake:
			c.Drain()
		case <-ticker.C:
			c.Drain()
		}
	}
}
