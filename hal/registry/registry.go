// Package registry is the process-wide table of claimed physical
// resources. Exclusivity is checked once, when the platform is assembled;
// a claimed resource is never released.
package registry

import (
	"sync/atomic"

	"embedplat/errcode"
	"embedplat/hal/halcore"
)

// Registry holds one claimed flag per known resource. The id set is fixed
// at construction so Claim never allocates or locks.
type Registry struct {
	index map[halcore.ResourceID]int
	flags []atomic.Bool
}

func New(ids ...halcore.ResourceID) *Registry {
	r := &Registry{index: make(map[halcore.ResourceID]int, len(ids))}
	for _, id := range ids {
		if _, dup := r.index[id]; !dup {
			r.index[id] = len(r.index)
		}
	}
	r.flags = make([]atomic.Bool, len(r.index))
	return r
}

// Claim marks id as taken. The first call succeeds; every later call for
// the same id fails with errcode.ResourceInUse, whether or not the first
// owner still holds its handle.
func (r *Registry) Claim(id halcore.ResourceID) error {
	i, ok := r.index[id]
	if !ok {
		return &errcode.E{C: errcode.UnknownResource, Op: "claim", Msg: string(id)}
	}
	if !r.flags[i].CompareAndSwap(false, true) {
		return &errcode.E{C: errcode.ResourceInUse, Op: "claim", Msg: string(id)}
	}
	return nil
}

// Claimed reports whether id has been taken.
func (r *Registry) Claimed(id halcore.ResourceID) bool {
	i, ok := r.index[id]
	return ok && r.flags[i].Load()
}

// Known reports whether id is part of the table.
func (r *Registry) Known(id halcore.ResourceID) bool {
	_, ok := r.index[id]
	return ok
}

// Len is the number of resources in the table.
func (r *Registry) Len() int { return len(r.flags) }

// Slot holds a handle that can be taken exactly once.
type Slot[H any] struct {
	id    halcore.ResourceID
	taken atomic.Bool
	h     H
}

func NewSlot[H any](id halcore.ResourceID, h H) *Slot[H] {
	return &Slot[H]{id: id, h: h}
}

// Take hands out the handle on the first call and ResourceInUse afterwards.
func (s *Slot[H]) Take() (H, error) {
	if !s.taken.CompareAndSwap(false, true) {
		var zero H
		return zero, &errcode.E{C: errcode.ResourceInUse, Op: "take", Msg: string(s.id)}
	}
	return s.h, nil
}

func (s *Slot[H]) ID() halcore.ResourceID { return s.id }

// Take claims id in r and, on success, returns the handle built by mk.
// mk runs only after the claim committed.
func Take[H any](r *Registry, id halcore.ResourceID, mk func() (H, error)) (H, error) {
	if err := r.Claim(id); err != nil {
		var zero H
		return zero, err
	}
	return mk()
}
