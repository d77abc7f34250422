//go:build tinygo && (rp2040 || rp2350)

package mailbox

import (
	"device/arm"
	"device/rp"
	"time"
)

// FIFOMailbox is a Mailbox backed by the RP2040/RP2350 hardware
// inter-core FIFO. Each direction of the link uses the channel id as
// the FIFO word: "the Control Block state has changed; scan it" is the
// entire payload, so the FIFO word itself carries no buffer data — it
// only tells the waiting core which channel to run the callback for,
// preserving the core's zero-copy, payload-less doorbell contract.
//
// This is the same mechanism TinyGo's own runtime uses for GC
// synchronization between the two RP2040 cores; using it here for the
// ping-pong protocol's doorbell is the natural fit on this target.
type FIFOMailbox struct {
	callbacks map[int]func()
}

// NewFIFOMailbox returns a FIFOMailbox. Call Run on the receiving core
// to start draining the hardware FIFO and dispatching callbacks.
func NewFIFOMailbox() *FIFOMailbox {
	return &FIFOMailbox{callbacks: make(map[int]func())}
}

func (f *FIFOMailbox) Enable(channel int) error { return nil }

func (f *FIFOMailbox) Send(channel int) error {
	fifoPushBlocking(uint32(channel))
	return nil
}

func (f *FIFOMailbox) RegisterCallback(channel int, fn func()) {
	f.callbacks[channel] = fn
}

// Run drains the hardware FIFO on the calling core, dispatching the
// registered callback for each channel id received. It never returns;
// start it in its own goroutine on each core's TinyGo scheduler.
func (f *FIFOMailbox) Run() {
	for {
		channel := int(fifoPopBlocking())
		if cb, ok := f.callbacks[channel]; ok {
			cb()
		}
	}
}

func fifoValid() bool {
	return rp.SIO.FIFO_ST.Get()&rp.SIO_FIFO_ST_VLD != 0
}

func fifoReady() bool {
	return rp.SIO.FIFO_ST.Get()&rp.SIO_FIFO_ST_RDY != 0
}

func fifoPushBlocking(data uint32) {
	for !fifoReady() {
		time.Sleep(1 * time.Microsecond)
	}
	rp.SIO.FIFO_WR.Set(data)
	arm.Asm("sev")
}

func fifoPopBlocking() uint32 {
	for !fifoValid() {
		arm.Asm("wfe")
	}
	return rp.SIO.FIFO_RD.Get()
}
