package wake

import (
	"embedplat/errcode"
	"embedplat/hal/halcore"
	"embedplat/task"
)

// Bridge is a fixed table of Slots keyed by resource. The table is built
// up front; Fire only indexes it, so it is safe to call from an ISR.
type Bridge struct {
	index map[halcore.ResourceID]int
	slots []Slot
}

func NewBridge(ids ...halcore.ResourceID) *Bridge {
	b := &Bridge{index: make(map[halcore.ResourceID]int, len(ids))}
	for _, id := range ids {
		if _, dup := b.index[id]; !dup {
			b.index[id] = len(b.index)
		}
	}
	b.slots = make([]Slot, len(b.index))
	return b
}

// Slot returns the mailbox for id, or nil if id is not watched.
func (b *Bridge) Slot(id halcore.ResourceID) *Slot {
	i, ok := b.index[id]
	if !ok {
		return nil
	}
	return &b.slots[i]
}

func (b *Bridge) Register(id halcore.ResourceID, w *task.Waker) error {
	s := b.Slot(id)
	if s == nil {
		return &errcode.E{C: errcode.UnknownResource, Op: "wake.register", Msg: string(id)}
	}
	s.Register(w)
	return nil
}

// Fire wakes the waiter on id, if any. Unknown ids are ignored.
func (b *Bridge) Fire(id halcore.ResourceID) bool {
	s := b.Slot(id)
	if s == nil {
		return false
	}
	return s.Fire()
}

func (b *Bridge) Deregister(id halcore.ResourceID, w *task.Waker) {
	if s := b.Slot(id); s != nil {
		s.Deregister(w)
	}
}

// Dropped sums coalesced fires across every slot.
func (b *Bridge) Dropped() uint32 {
	var n uint32
	for i := range b.slots {
		n += b.slots[i].Dropped()
	}
	return n
}

// Watch installs an interrupt handler on pin that fires the slot for id.
// The returned func removes the handler.
func (b *Bridge) Watch(id halcore.ResourceID, pin halcore.IRQPin, edge halcore.Edge) (func(), error) {
	s := b.Slot(id)
	if s == nil {
		return nil, &errcode.E{C: errcode.UnknownResource, Op: "wake.watch", Msg: string(id)}
	}
	if edge == halcore.EdgeNone {
		return func() {}, nil
	}
	// ISR handler: slot swap only.
	if err := pin.SetIRQ(edge, func() { s.Fire() }); err != nil {
		return nil, err
	}
	return func() { _ = pin.ClearIRQ() }, nil
}
