package future

import (
	"time"

	"embedplat/hal/capability"
	"embedplat/task"
)

// WaitUntilOp completes once the timer reaches deadline.
type WaitUntilOp[T capability.Timer] struct {
	timer    T
	deadline time.Time
}

func WaitUntil[T capability.Timer](timer T, deadline time.Time) WaitUntilOp[T] {
	return WaitUntilOp[T]{timer: timer, deadline: deadline}
}

// Sleep waits d from now, as measured by the timer's own clock. The
// deadline is fixed here so that re-polling never extends it.
func Sleep[T capability.Timer](timer T, d time.Duration) WaitUntilOp[T] {
	return WaitUntil(timer, timer.Now().Add(d))
}

func (o WaitUntilOp[T]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return o.timer.PollUntil(cx, o.deadline)
}
