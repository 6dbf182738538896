// Package task is the cooperative poll/wake contract shared by every
// peripheral operation. An operation is polled; it either completes
// (Ready) or reports Pending after arranging for the task's Waker to be
// called once progress is possible again.
package task

import "sync/atomic"

// Poll is the outcome of one poll step.
type Poll[T any] struct {
	Ready bool
	Value T
	Err   error
}

func Pending[T any]() Poll[T]           { return Poll[T]{} }
func ReadyOK[T any](v T) Poll[T]        { return Poll[T]{Ready: true, Value: v} }
func ReadyErr[T any](err error) Poll[T] { return Poll[T]{Ready: true, Err: err} }

// Done reports Ready.
func (p Poll[T]) Done() bool { return p.Ready }

// Future is anything a scheduler can drive to completion.
// A Future must not be polled again after it returned Ready.
type Future[T any] interface {
	Poll(cx *Context) Poll[T]
}

// FutureFunc adapts a closure into a Future.
type FutureFunc[T any] func(cx *Context) Poll[T]

func (f FutureFunc[T]) Poll(cx *Context) Poll[T] { return f(cx) }

// Waker notifies a scheduler that its task should be polled again.
//
// Wake may be called from any goroutine or from an interrupt handler. It
// never blocks and never allocates. Repeated wakes before the next poll
// coalesce into one. Waking a task that finished or was dropped is a no-op.
type Waker struct {
	queued atomic.Bool
	q      chan *Waker
	id     int
}

// NewWaker returns a waker delivering to q. q must have room for one entry
// per waker that can deliver to it.
func NewWaker(q chan *Waker, id int) *Waker {
	return &Waker{q: q, id: id}
}

// ID is the scheduler-assigned task index.
func (w *Waker) ID() int { return w.id }

func (w *Waker) Wake() {
	if w == nil || w.q == nil {
		return
	}
	if !w.queued.CompareAndSwap(false, true) {
		return
	}
	select {
	case w.q <- w:
	default:
		// Queue sized per waker; full means a wake is already pending.
	}
}

// Rearm clears the queued flag. Schedulers call it right before polling;
// wakes after this point schedule another poll.
func (w *Waker) Rearm() { w.queued.Store(false) }

// Context is the wake-registration token handed to every poll.
type Context struct {
	w *Waker
}

// NewContext wraps a waker. Schedulers call this once per task.
func NewContext(w *Waker) *Context { return &Context{w: w} }

// Waker returns the waker to register before reporting Pending.
func (cx *Context) Waker() *Waker { return cx.w }
