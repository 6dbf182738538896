package future

import (
	"embedplat/hal/capability"
	"embedplat/task"
)

type I2CReadOp[B capability.I2CRead] struct {
	bus  B
	addr uint16
	r    []byte
}

func I2CRead[B capability.I2CRead](bus B, addr uint16, r []byte) I2CReadOp[B] {
	return I2CReadOp[B]{bus: bus, addr: addr, r: r}
}

func (o I2CReadOp[B]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return o.bus.PollRead(cx, o.addr, o.r)
}

type I2CWriteOp[B capability.I2CWrite] struct {
	bus  B
	addr uint16
	w    []byte
}

func I2CWrite[B capability.I2CWrite](bus B, addr uint16, w []byte) I2CWriteOp[B] {
	return I2CWriteOp[B]{bus: bus, addr: addr, w: w}
}

func (o I2CWriteOp[B]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return o.bus.PollWrite(cx, o.addr, o.w)
}

type I2CTransferOp[B capability.I2CTransfer] struct {
	bus  B
	addr uint16
	w, r []byte
}

func I2CTransfer[B capability.I2CTransfer](bus B, addr uint16, w, r []byte) I2CTransferOp[B] {
	return I2CTransferOp[B]{bus: bus, addr: addr, w: w, r: r}
}

func (o I2CTransferOp[B]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return o.bus.PollTransfer(cx, o.addr, o.w, o.r)
}

type SPITransferOp[B capability.SPITransfer] struct {
	bus  B
	w, r []byte
}

func SPITransfer[B capability.SPITransfer](bus B, w, r []byte) SPITransferOp[B] {
	return SPITransferOp[B]{bus: bus, w: w, r: r}
}

func (o SPITransferOp[B]) Poll(cx *task.Context) task.Poll[capability.Unit] {
	return o.bus.PollTransfer(cx, o.w, o.r)
}
