package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/task"
)

// stepPin reports Pending a fixed number of times, waking itself, before
// completing. It counts polls after completion.
type stepPin struct {
	pending int
	high    bool
	polls   int
	late    int
	done    bool
}

func (p *stepPin) step(cx *task.Context) bool {
	p.polls++
	if p.done {
		p.late++
	}
	if p.pending > 0 {
		p.pending--
		cx.Waker().Wake()
		return false
	}
	p.done = true
	return true
}

func (p *stepPin) PollSet(cx *task.Context, high bool) task.Poll[capability.Unit] {
	if !p.step(cx) {
		return task.Pending[capability.Unit]()
	}
	p.high = high
	return task.ReadyOK(capability.Unit{})
}

func (p *stepPin) PollGet(cx *task.Context) task.Poll[bool] {
	if !p.step(cx) {
		return task.Pending[bool]()
	}
	return task.ReadyOK(p.high)
}

func TestSetPassesPendingThrough(t *testing.T) {
	p := &stepPin{pending: 2}
	if _, err := task.Block[capability.Unit](context.Background(), High(p)); err != nil {
		t.Fatal(err)
	}
	if !p.high || p.polls != 3 || p.late != 0 {
		t.Fatalf("high=%v polls=%d late=%d", p.high, p.polls, p.late)
	}

	p = &stepPin{high: true}
	v, err := task.Block[bool](context.Background(), Get(p))
	if err != nil || !v {
		t.Fatalf("Get = %v, %v", v, err)
	}
}

// scriptWriter accepts at most chunk bytes per poll and goes Pending on
// every other poll.
type scriptWriter struct {
	chunk int
	got   []byte
	flip  bool
	fail  error
	after int
}

func (w *scriptWriter) PollWrite(cx *task.Context, p []byte) task.Poll[int] {
	w.flip = !w.flip
	if w.flip {
		cx.Waker().Wake()
		return task.Pending[int]()
	}
	if w.fail != nil && len(w.got) >= w.after {
		return task.ReadyErr[int](w.fail)
	}
	n := min(w.chunk, len(p))
	w.got = append(w.got, p[:n]...)
	return task.ReadyOK(n)
}

func TestWriteAllAcrossPartialWrites(t *testing.T) {
	w := &scriptWriter{chunk: 3}
	op := WriteAll(w, []byte("hello, world"))
	n, err := task.Block[int](context.Background(), &op)
	if err != nil || n != 12 || string(w.got) != "hello, world" {
		t.Fatalf("n=%d err=%v got=%q", n, err, w.got)
	}
}

func TestWriteAllReportsProgressOnError(t *testing.T) {
	w := &scriptWriter{chunk: 4, fail: errcode.BusFault, after: 4}
	op := WriteAll(w, []byte("abcdefgh"))
	n, err := task.Block[int](context.Background(), &op)
	if !errors.Is(err, errcode.BusFault) || n != 4 {
		t.Fatalf("n=%d err=%v", n, err)
	}

	w = &scriptWriter{chunk: 0}
	op = WriteAll(w, []byte("x"))
	if _, err := task.Block[int](context.Background(), &op); !errors.Is(err, errcode.Closed) {
		t.Fatalf("zero-length write err = %v, want closed", err)
	}
}

func TestWriteAllEmptyIsImmediate(t *testing.T) {
	q := make(chan *task.Waker, 1)
	cx := task.NewContext(task.NewWaker(q, 0))
	op := WriteAll(&scriptWriter{}, nil)
	if r := op.Poll(cx); !r.Ready || r.Value != 0 {
		t.Fatalf("empty WriteAll = %+v", r)
	}
}

// greedyWriter claims to have accepted more than it was given.
type greedyWriter struct{}

func (greedyWriter) PollWrite(_ *task.Context, p []byte) task.Poll[int] {
	return task.ReadyOK(len(p) + 1)
}

func TestWriteAllRejectsOverReportedCount(t *testing.T) {
	op := WriteAll(greedyWriter{}, []byte("abc"))
	n, err := task.Block[int](context.Background(), &op)
	if !errors.Is(err, errcode.BusFault) || n != 0 {
		t.Fatalf("n=%d err=%v, want bus_fault with nothing counted", n, err)
	}
}

func TestWriteAllIsAValue(t *testing.T) {
	w := &scriptWriter{chunk: 2}
	first := WriteAll(w, []byte("abcd"))
	second := first // an unpolled copy is an independent operation
	if _, err := task.Block[int](context.Background(), &first); err != nil {
		t.Fatal(err)
	}
	n, err := task.Block[int](context.Background(), &second)
	if err != nil || n != 4 || string(w.got) != "abcdabcd" {
		t.Fatalf("n=%d err=%v got=%q", n, err, w.got)
	}
}

type fakeI2C struct {
	addr uint16
	w    []byte
	err  error
}

func (f *fakeI2C) PollRead(_ *task.Context, addr uint16, r []byte) task.Poll[capability.Unit] {
	return f.PollTransfer(nil, addr, nil, r)
}

func (f *fakeI2C) PollWrite(_ *task.Context, addr uint16, w []byte) task.Poll[capability.Unit] {
	return f.PollTransfer(nil, addr, w, nil)
}

func (f *fakeI2C) PollTransfer(_ *task.Context, addr uint16, w, r []byte) task.Poll[capability.Unit] {
	f.addr, f.w = addr, w
	for i := range r {
		r[i] = byte(i + 1)
	}
	if f.err != nil {
		return task.ReadyErr[capability.Unit](f.err)
	}
	return task.ReadyOK(capability.Unit{})
}

func TestBusOpsForwardArguments(t *testing.T) {
	bus := &fakeI2C{}
	buf := make([]byte, 2)
	if _, err := task.Block[capability.Unit](context.Background(), I2CTransfer(bus, 0x3C, []byte{0x10}, buf)); err != nil {
		t.Fatal(err)
	}
	if bus.addr != 0x3C || bus.w[0] != 0x10 || buf[1] != 2 {
		t.Fatalf("addr=%#x w=%v buf=%v", bus.addr, bus.w, buf)
	}
	bus.err = errcode.Nack
	if _, err := task.Block[capability.Unit](context.Background(), I2CRead(bus, 0x3D, buf)); !errors.Is(err, errcode.Nack) {
		t.Fatalf("err = %v, want nack", err)
	}
}

// stepTimer completes once Now passes the deadline; Now advances by one
// millisecond on every poll.
type stepTimer struct {
	now   time.Time
	polls int
}

func (t *stepTimer) Now() time.Time { return t.now }

func (t *stepTimer) PollUntil(cx *task.Context, deadline time.Time) task.Poll[capability.Unit] {
	t.polls++
	if !t.now.Before(deadline) {
		return task.ReadyOK(capability.Unit{})
	}
	t.now = t.now.Add(time.Millisecond)
	cx.Waker().Wake()
	return task.Pending[capability.Unit]()
}

func TestSleepFixesDeadlineAtCreation(t *testing.T) {
	tm := &stepTimer{now: time.Unix(100, 0)}
	op := Sleep(tm, 5*time.Millisecond)
	tm.now = tm.now.Add(2 * time.Millisecond)
	if _, err := task.Block[capability.Unit](context.Background(), op); err != nil {
		t.Fatal(err)
	}
	if tm.polls != 4 {
		t.Fatalf("polls = %d, want 4", tm.polls)
	}
}
