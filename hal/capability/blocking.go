package capability

import (
	"embedplat/errcode"
	"embedplat/hal/halcore"
	"embedplat/task"

	"tinygo.org/x/drivers"
)

// The adapters below lift synchronous collaborators into the pollable
// contract. Each completes on its first poll and never reports Pending.

// BlockingPin drives a halcore.GPIOPin.
type BlockingPin struct {
	Pin halcore.GPIOPin
}

func (b BlockingPin) PollSet(_ *task.Context, high bool) task.Poll[Unit] {
	b.Pin.Set(high)
	return task.ReadyOK(Unit{})
}

func (b BlockingPin) PollGet(_ *task.Context) task.Poll[bool] {
	return task.ReadyOK(b.Pin.Get())
}

// BlockingI2C drives a tinygo drivers.I2C bus.
type BlockingI2C struct {
	Bus drivers.I2C
}

func (b BlockingI2C) PollRead(_ *task.Context, addr uint16, r []byte) task.Poll[Unit] {
	return i2cResult("i2c.read", b.Bus.Tx(addr, nil, r))
}

func (b BlockingI2C) PollWrite(_ *task.Context, addr uint16, w []byte) task.Poll[Unit] {
	return i2cResult("i2c.write", b.Bus.Tx(addr, w, nil))
}

func (b BlockingI2C) PollTransfer(_ *task.Context, addr uint16, w, r []byte) task.Poll[Unit] {
	return i2cResult("i2c.transfer", b.Bus.Tx(addr, w, r))
}

func i2cResult(op string, err error) task.Poll[Unit] {
	if err != nil {
		return task.ReadyErr[Unit](errcode.Wrap(errcode.MapDriverErr(err), op, err))
	}
	return task.ReadyOK(Unit{})
}

// BlockingSPI drives a tinygo drivers.SPI bus.
type BlockingSPI struct {
	Bus drivers.SPI
}

func (b BlockingSPI) PollTransfer(_ *task.Context, w, r []byte) task.Poll[Unit] {
	if w != nil && r != nil && len(w) != len(r) {
		return task.ReadyErr[Unit](&errcode.E{C: errcode.Unsupported, Op: "spi.transfer", Msg: "length mismatch"})
	}
	if err := b.Bus.Tx(w, r); err != nil {
		return task.ReadyErr[Unit](errcode.Wrap(errcode.MapDriverErr(err), "spi.transfer", err))
	}
	return task.ReadyOK(Unit{})
}

var (
	_ OutputPin   = BlockingPin{}
	_ InputPin    = BlockingPin{}
	_ I2C         = BlockingI2C{}
	_ SPITransfer = BlockingSPI{}
)
