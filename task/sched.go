package task

import (
	"context"
	"errors"

	"embedplat/errcode"
)

// Block drives a single future to completion on the calling goroutine,
// parking between polls until the future's waker fires. If ctx ends first
// the future is dropped, which cancels it.
func Block[T any](ctx context.Context, f Future[T]) (T, error) {
	q := make(chan *Waker, 1)
	w := NewWaker(q, 0)
	cx := NewContext(w)
	for {
		w.Rearm()
		if p := f.Poll(cx); p.Ready {
			return p.Value, p.Err
		}
		select {
		case <-q:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Executor is a fixed-capacity cooperative scheduler. All tasks run on the
// goroutine calling Run; a task is polled once when spawned and afterwards
// only when its waker fired. Spawn may be called before Run or from inside
// a running task.
type Executor struct {
	q     chan *Waker
	tasks []taskSlot
	live  int
}

type taskSlot struct {
	f    Future[struct{}]
	cx   *Context
	done bool
}

func NewExecutor(max int) *Executor {
	if max <= 0 {
		max = 8
	}
	return &Executor{
		q:     make(chan *Waker, max),
		tasks: make([]taskSlot, 0, max),
	}
}

// Spawn adds a task. It fails with errcode.Busy once capacity is reached.
func (e *Executor) Spawn(f Future[struct{}]) error {
	if len(e.tasks) == cap(e.tasks) {
		return errcode.Busy
	}
	w := NewWaker(e.q, len(e.tasks))
	e.tasks = append(e.tasks, taskSlot{f: f, cx: NewContext(w)})
	e.live++
	w.Wake()
	return nil
}

// Run polls woken tasks until all of them completed or ctx ends.
// Task errors are joined into the returned error.
func (e *Executor) Run(ctx context.Context) error {
	var errs []error
	for e.live > 0 {
		select {
		case w := <-e.q:
			t := &e.tasks[w.ID()]
			if t.done {
				continue
			}
			w.Rearm()
			p := t.f.Poll(t.cx)
			if !p.Ready {
				continue
			}
			t.done = true
			t.f = nil
			e.live--
			if p.Err != nil {
				errs = append(errs, p.Err)
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return errors.Join(errs...)
		}
	}
	return errors.Join(errs...)
}

// Live reports the number of tasks not yet completed.
func (e *Executor) Live() int { return e.live }
