package provider

import (
	"time"

	"github.com/benbjohnson/clock"

	"embedplat/hal/capability"
	"embedplat/hal/wake"
	"embedplat/task"
)

// ClockTimer is the timer capability over a clock. It owns one re-armable
// alarm whose expiry fires a wake slot, mirroring a hardware compare
// channel with its interrupt.
type ClockTimer struct {
	clk   clock.Clock
	slot  wake.Slot
	alarm *clock.Timer
}

// NewClockTimer uses clk, or the wall clock when nil.
func NewClockTimer(clk clock.Clock) *ClockTimer {
	if clk == nil {
		clk = clock.New()
	}
	return &ClockTimer{clk: clk}
}

func (t *ClockTimer) Now() time.Time { return t.clk.Now() }

// PollUntil registers the waker before arming, so an expiry can never
// find the slot empty.
func (t *ClockTimer) PollUntil(cx *task.Context, deadline time.Time) task.Poll[capability.Unit] {
	w := cx.Waker()
	t.slot.Register(w)
	d := deadline.Sub(t.clk.Now())
	if d <= 0 {
		t.slot.Deregister(w)
		return task.ReadyOK(capability.Unit{})
	}
	if t.alarm == nil {
		t.alarm = t.clk.AfterFunc(d, t.expire)
	} else {
		t.alarm.Reset(d)
	}
	return task.Pending[capability.Unit]()
}

func (t *ClockTimer) expire() { t.slot.Fire() }

// Stop disarms the alarm. A stale expiry is harmless either way.
func (t *ClockTimer) Stop() {
	if t.alarm != nil {
		t.alarm.Stop()
	}
}

var _ capability.Timer = (*ClockTimer)(nil)
