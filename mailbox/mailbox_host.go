package mailbox

import "sync"

// HostMailbox is a goroutine/channel simulation of a doorbell mailbox,
// used by the host development harness and by unit/integration tests
// that run the producer and consumer as two goroutines instead of two
// cores. Sends are fire-and-forget and coalesce: a channel already
// signaled is left signaled rather than blocking, matching "spurious
// interrupts are legal and must be handled idempotently" (spec.md §4.2).
type HostMailbox struct {
	mu        sync.Mutex
	enabled   map[int]bool
	callbacks map[int]func()
	signal    map[int]chan struct{}
}

// NewHostMailbox returns a ready HostMailbox.
func NewHostMailbox() *HostMailbox {
	return &HostMailbox{
		enabled:   make(map[int]bool),
		callbacks: make(map[int]func()),
		signal:    make(map[int]chan struct{}),
	}
}

func (h *HostMailbox) Enable(channel int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled[channel] = true
	if h.signal[channel] == nil {
		h.signal[channel] = make(chan struct{}, 1)
	}
	return nil
}

// Send fires the channel's callback, if one is registered, on a fresh
// goroutine — mirroring a real mailbox ISR dispatching out of interrupt
// context. If no callback is registered the send is simply dropped; the
// peer's next poll will still observe the state change directly.
func (h *HostMailbox) Send(channel int) error {
	h.mu.Lock()
	if !h.enabled[channel] {
		h.mu.Unlock()
		return ErrChannelNotEnabled
	}
	cb := h.callbacks[channel]
	ch := h.signal[channel]
	h.mu.Unlock()

	if cb == nil {
		return nil
	}
	select {
	case ch <- struct{}{}:
		// The goroutine clears the pending signal before running the
		// callback, so a send after that point fires the callback again.
		go func() {
			<-ch
			cb()
		}()
	default:
		// Already has a pending signal; duplicate doorbells coalesce.
	}
	return nil
}

func (h *HostMailbox) RegisterCallback(channel int, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks[channel] = fn
}

// ErrChannelNotEnabled is returned by Send on a channel that was never
// enabled via Enable.
var ErrChannelNotEnabled = errChannelNotEnabled{}

type errChannelNotEnabled struct{}

func (errChannelNotEnabled) Error() string { return "mailbox: channel not enabled" }
