// Package mailbox mediates between buffer-state changes and the
// doorbell hardware. It implements core.Notifier: a full memory fence
// followed by a fire-and-forget, payload-less interrupt to the peer.
package mailbox

import "duocore/core"

// Mailbox is the collaborator contract this core consumes from a real
// mailbox/doorbell driver: enable a channel, send on it, and register a
// callback for inbound sends. No payload is ever carried — the peer
// infers meaning by scanning the Control Block, and the contract must
// tolerate duplicate or lost interrupts (the scan is idempotent).
type Mailbox interface {
	Enable(channel int) error
	Send(channel int) error
	RegisterCallback(channel int, fn func())
}

// Notifier wraps a Mailbox with the fixed two-channel ping-pong
// convention (one channel producer->consumer, one consumer->producer)
// and the fence-before-send discipline spec.md §4.2 requires. It
// satisfies core.Notifier.
type Notifier struct {
	mb           Mailbox
	toConsumerCh int
	toProducerCh int
}

// Channels used by the two doorbell directions. Configuration, not a
// protocol constant — a deployment may renumber them.
const (
	ChannelToConsumer = 20
	ChannelToProducer = 21
)

// NewNotifier enables both channels and returns a ready Notifier. Pass
// the callbacks that should run when each side's doorbell fires;
// OnConsumerDoorbell should be kept minimal (spec.md §9's "ISR bodies
// are minimal" design note) — it must only wake the consumer worker,
// never process a buffer itself.
func NewNotifier(mb Mailbox, onConsumerDoorbell, onProducerDoorbell func()) (*Notifier, error) {
	n := &Notifier{mb: mb, toConsumerCh: ChannelToConsumer, toProducerCh: ChannelToProducer}

	if err := mb.Enable(n.toConsumerCh); err != nil {
		return nil, err
	}
	if err := mb.Enable(n.toProducerCh); err != nil {
		return nil, err
	}
	if onConsumerDoorbell != nil {
		mb.RegisterCallback(n.toConsumerCh, onConsumerDoorbell)
	}
	if onProducerDoorbell != nil {
		mb.RegisterCallback(n.toProducerCh, onProducerDoorbell)
	}
	return n, nil
}

// NotifyConsumer fences preceding buffer/state writes, then triggers
// the consumer's doorbell. Called by the producer after commit.
func (n *Notifier) NotifyConsumer() error {
	core.MemoryFenceFull()
	return n.mb.Send(n.toConsumerCh)
}

// NotifyProducer fences preceding buffer/state writes, then triggers
// the producer's doorbell. Called by the consumer after release.
func (n *Notifier) NotifyProducer() error {
	core.MemoryFenceFull()
	return n.mb.Send(n.toProducerCh)
}

var _ core.Notifier = (*Notifier)(nil)
