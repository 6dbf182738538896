package future

import (
	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/task"
)

// SerialReadOp completes with the number of bytes read (at least one).
type SerialReadOp[S capability.SerialRead] struct {
	port S
	p    []byte
}

func SerialRead[S capability.SerialRead](port S, p []byte) SerialReadOp[S] {
	return SerialReadOp[S]{port: port, p: p}
}

func (o SerialReadOp[S]) Poll(cx *task.Context) task.Poll[int] {
	return o.port.PollRead(cx, o.p)
}

// SerialWriteOp completes with the number of bytes accepted (at least one).
type SerialWriteOp[S capability.SerialWrite] struct {
	port S
	p    []byte
}

func SerialWrite[S capability.SerialWrite](port S, p []byte) SerialWriteOp[S] {
	return SerialWriteOp[S]{port: port, p: p}
}

func (o SerialWriteOp[S]) Poll(cx *task.Context) task.Poll[int] {
	return o.port.PollWrite(cx, o.p)
}

// WriteAllOp keeps writing until the whole buffer was accepted. Its only
// state is the unwritten tail of the input. If it is dropped part way, the
// bytes already accepted stay sent. Poll advances that state, so drive it
// through a pointer to the value WriteAll returned.
type WriteAllOp[S capability.SerialWrite] struct {
	port S
	rest []byte
	n    int
}

func WriteAll[S capability.SerialWrite](port S, p []byte) WriteAllOp[S] {
	return WriteAllOp[S]{port: port, rest: p}
}

func (o *WriteAllOp[S]) Poll(cx *task.Context) task.Poll[int] {
	for len(o.rest) > 0 {
		r := o.port.PollWrite(cx, o.rest)
		if !r.Ready {
			return task.Pending[int]()
		}
		switch {
		case r.Err != nil:
		case r.Value <= 0:
			r.Err = errcode.Closed
		case r.Value > len(o.rest):
			r.Err = &errcode.E{C: errcode.BusFault, Op: "serial.write", Msg: "port accepted more bytes than offered"}
		}
		if r.Err != nil {
			return task.Poll[int]{Ready: true, Value: o.n, Err: r.Err}
		}
		o.n += r.Value
		o.rest = o.rest[r.Value:]
	}
	return task.ReadyOK(o.n)
}
