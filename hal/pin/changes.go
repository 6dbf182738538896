// Package pin exposes input level transitions as a pull-based, infinite
// sequence driven by the task scheduler.
package pin

import (
	"time"

	"github.com/benbjohnson/clock"

	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/hal/halcore"
	"embedplat/hal/wake"
	"embedplat/task"
)

// Change is one observed transition. Level is logical (after inversion).
type Change struct {
	Edge  halcore.Edge
	Level bool
	TS    time.Time
}

// State of the sequence cursor.
type State uint8

const (
	Idle  State = iota // no waker registered
	Armed              // waker registered, waiting for a fire
	Ready              // transition returned, not polled since
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

type Options struct {
	// Edge selects which transitions are emitted. EdgeNone means both.
	Edge   halcore.Edge
	Invert bool
	// Clock stamps events; nil uses the wall clock.
	Clock clock.Clock
}

// Changes is a single-cursor sequence of transitions on one input. It is
// not safe for use by more than one task at a time.
type Changes[P capability.InputPin] struct {
	pin    P
	slot   *wake.Slot
	edge   halcore.Edge
	invert bool
	clk    clock.Clock

	state  State
	primed bool
	last   bool
	waker  *task.Waker
	closed bool
}

// New builds a sequence over pin, woken through slot. The pin's interrupt
// must be wired to fire slot (see wake.Bridge.Watch).
func New[P capability.InputPin](pin P, slot *wake.Slot, opts Options) *Changes[P] {
	edge := opts.Edge
	if edge == halcore.EdgeNone {
		edge = halcore.EdgeBoth
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Changes[P]{pin: pin, slot: slot, edge: edge, invert: opts.Invert, clk: clk}
}

// PollNext advances the cursor by at most one transition.
//
// The waker is registered before the level is sampled, so an edge that
// lands after the sample still finds a waiter. Fires that leave the level
// unchanged are swallowed and the cursor stays armed.
func (c *Changes[P]) PollNext(cx *task.Context) task.Poll[Change] {
	if c.closed {
		return task.ReadyErr[Change](errcode.Closed)
	}
	w := cx.Waker()
	c.slot.Register(w)
	c.waker = w
	c.state = Armed

	r := c.pin.PollGet(cx)
	if !r.Ready {
		return task.Pending[Change]()
	}
	if r.Err != nil {
		c.disarm()
		return task.ReadyErr[Change](r.Err)
	}
	level := r.Value != c.invert

	if !c.primed {
		c.primed = true
		c.last = level
		return task.Pending[Change]()
	}
	e := halcore.EdgeBetween(c.last, level)
	c.last = level
	if !c.edge.Matches(e) {
		return task.Pending[Change]()
	}

	ev := Change{Edge: e, Level: level, TS: c.clk.Now()}
	c.disarm()
	c.state = Ready
	return task.ReadyOK(ev)
}

func (c *Changes[P]) disarm() {
	if c.waker != nil {
		c.slot.Deregister(c.waker)
		c.waker = nil
	}
	c.state = Idle
}

// State reports the cursor state.
func (c *Changes[P]) State() State { return c.state }

// Last is the most recently observed logical level and whether one has
// been observed yet.
func (c *Changes[P]) Last() (bool, bool) { return c.last, c.primed }

// Close abandons the sequence. Pending fires land in an empty slot.
func (c *Changes[P]) Close() {
	c.disarm()
	c.closed = true
}

// Next returns a future for the next transition.
func (c *Changes[P]) Next() NextOp[P] { return NextOp[P]{c: c} }

type NextOp[P capability.InputPin] struct {
	c *Changes[P]
}

func (n NextOp[P]) Poll(cx *task.Context) task.Poll[Change] { return n.c.PollNext(cx) }
