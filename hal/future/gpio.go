package future

import (
	"embedplat/hal/capability"
	"embedplat/task"
)

// SetOp drives an output pin to a level.
type SetOp[P capability.OutputPin] struct {
	pin  P
	high bool
}

func Set[P capability.OutputPin](pin P, high bool) SetOp[P] {
	return SetOp[P]{pin: pin, high: high}
}

func High[P capability.OutputPin](pin P) SetOp[P] { return Set(pin, true) }
func Low[P capability.OutputPin](pin P) SetOp[P]  { return Set(pin, false) }

func (s SetOp[P]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return s.pin.PollSet(cx, s.high)
}

// GetOp samples an input pin.
type GetOp[P capability.InputPin] struct {
	pin P
}

func Get[P capability.InputPin](pin P) GetOp[P] { return GetOp[P]{pin: pin} }

func (g GetOp[P]) Poll(cx *task.Context) task.Poll[bool] {
	return g.pin.PollGet(cx)
}
