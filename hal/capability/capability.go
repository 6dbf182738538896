// Package capability defines the pollable, single-step operation contract
// for each peripheral category.
//
// Every method attempts one step and reports Ready (with a value or a
// hardware error) or Pending. Before returning Pending an implementation
// must have arranged for cx.Waker() to be called once the operation can
// make progress; otherwise the calling task never runs again. A Ready
// error is terminal for that operation and is never retried here.
package capability

import (
	"time"

	"embedplat/task"
)

// Unit is the value type of operations that only complete.
type Unit = struct{}

type OutputPin interface {
	PollSet(cx *task.Context, high bool) task.Poll[Unit]
}

type InputPin interface {
	PollGet(cx *task.Context) task.Poll[bool]
}

type I2CRead interface {
	PollRead(cx *task.Context, addr uint16, r []byte) task.Poll[Unit]
}

type I2CWrite interface {
	PollWrite(cx *task.Context, addr uint16, w []byte) task.Poll[Unit]
}

// I2CTransfer writes w then reads into r with a repeated start.
type I2CTransfer interface {
	PollTransfer(cx *task.Context, addr uint16, w, r []byte) task.Poll[Unit]
}

// I2C is the full I2C capability set.
type I2C interface {
	I2CRead
	I2CWrite
	I2CTransfer
}

// SPITransfer clocks out w while clocking in r. Either may be nil; when
// both are set they must have the same length.
type SPITransfer interface {
	PollTransfer(cx *task.Context, w, r []byte) task.Poll[Unit]
}

// SerialRead is Ready with at least one byte, Pending when none are buffered.
type SerialRead interface {
	PollRead(cx *task.Context, p []byte) task.Poll[int]
}

// SerialWrite is Ready once at least one byte was accepted.
type SerialWrite interface {
	PollWrite(cx *task.Context, p []byte) task.Poll[int]
}

type Serial interface {
	SerialRead
	SerialWrite
}

// Timer completes once its clock reaches deadline.
type Timer interface {
	Now() time.Time
	PollUntil(cx *task.Context, deadline time.Time) task.Poll[Unit]
}
