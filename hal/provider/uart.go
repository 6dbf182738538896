package provider

import (
	"context"

	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/hal/halcore"
	"embedplat/hal/wake"
	"embedplat/task"
)

// UART lifts a halcore.UARTPort into the serial capabilities. RX readiness
// reaches the task through a wake slot fed by Run, which must be running
// for PollRead to ever complete after a Pending.
type UART struct {
	port halcore.UARTPort
	rx   wake.Slot
}

func NewUART(port halcore.UARTPort) *UART { return &UART{port: port} }

// Run forwards the port's readable notifications until ctx ends.
func (u *UART) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-u.port.Readable():
			u.rx.Fire()
		}
	}
}

// failer is implemented by ports whose receive side can stop for good.
type failer interface{ Err() error }

// PollRead registers for RX before checking the buffer, so bytes that
// arrive after the check still wake the task.
func (u *UART) PollRead(cx *task.Context, p []byte) task.Poll[int] {
	if len(p) == 0 {
		return task.ReadyOK(0)
	}
	w := cx.Waker()
	u.rx.Register(w)
	if u.port.Buffered() == 0 {
		if e, ok := u.port.(failer); ok {
			if err := e.Err(); err != nil {
				u.rx.Deregister(w)
				return task.ReadyErr[int](errcode.Wrap(errcode.Closed, "uart.read", err))
			}
		}
		return task.Pending[int]()
	}
	u.rx.Deregister(w)
	n, err := u.port.Read(p)
	if err != nil {
		return task.Poll[int]{Ready: true, Value: n, Err: errcode.Wrap(errcode.MapDriverErr(err), "uart.read", err)}
	}
	if n == 0 {
		// Raced with another reader draining the buffer; wait again.
		u.rx.Register(w)
		return task.Pending[int]()
	}
	return task.ReadyOK(n)
}

func (u *UART) PollWrite(_ *task.Context, p []byte) task.Poll[int] {
	if len(p) == 0 {
		return task.ReadyOK(0)
	}
	n, err := u.port.Write(p)
	if err != nil {
		return task.Poll[int]{Ready: true, Value: n, Err: errcode.Wrap(errcode.MapDriverErr(err), "uart.write", err)}
	}
	return task.ReadyOK(n)
}

// SetBaudRate is forwarded when the port supports it.
func (u *UART) SetBaudRate(br uint32) error {
	f, ok := u.port.(halcore.UARTFormatter)
	if !ok {
		return errcode.Unsupported
	}
	f.SetBaudRate(br)
	return nil
}

var (
	_ capability.Serial = (*UART)(nil)
	_ halcore.Runner    = (*UART)(nil)
)
