// Package wake bridges interrupt-context events into task wake-ups.
//
// Each watched resource owns a single-slot mailbox holding at most one
// waker. Task code registers before it re-checks hardware state; the
// interrupt side swaps the slot empty and wakes whatever it found. Edges
// that arrive while the slot is empty are dropped: a consumer learns that
// at least one edge happened since its last poll, never how many.
package wake

import (
	"sync/atomic"

	"embedplat/task"
)

// Slot is a single waker mailbox. The zero value is empty and ready to use.
type Slot struct {
	w     atomic.Pointer[task.Waker]
	drops atomic.Uint32
}

// Register stores w, replacing any waker that has not fired yet.
func (s *Slot) Register(w *task.Waker) {
	st := disableInterrupts()
	s.w.Store(w)
	restoreInterrupts(st)
}

// Fire wakes and clears the registered waker. It reports whether one was
// present. Safe from interrupt context: no locks, no allocation.
func (s *Slot) Fire() bool {
	w := s.w.Swap(nil)
	if w == nil {
		s.drops.Add(1)
		return false
	}
	w.Wake()
	return true
}

// Deregister clears the slot if it still holds w. A newer registration by
// someone else is left in place.
func (s *Slot) Deregister(w *task.Waker) bool {
	return s.w.CompareAndSwap(w, nil)
}

// Armed reports whether a waker is waiting.
func (s *Slot) Armed() bool { return s.w.Load() != nil }

// Dropped counts fires that found the slot empty.
func (s *Slot) Dropped() uint32 { return s.drops.Load() }
