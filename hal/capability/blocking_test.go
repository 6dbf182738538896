package capability

import (
	"errors"
	"testing"

	"embedplat/errcode"
	"embedplat/hal/halcore"
	"embedplat/task"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.I2C = (*fakeI2C)(nil)
	_ drivers.SPI = (*fakeSPI)(nil)
)

type fakeI2C struct {
	lastAddr uint16
	lastW    []byte
	reply    []byte
	err      error
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.lastAddr = addr
	f.lastW = append([]byte(nil), w...)
	copy(r, f.reply)
	return f.err
}

type fakeSPI struct{ echo bool }

func (f *fakeSPI) Tx(w, r []byte) error {
	if f.echo {
		copy(r, w)
	}
	return nil
}
func (f *fakeSPI) Transfer(b byte) (byte, error) { return b, nil }

type fakePin struct{ level bool }

func (p *fakePin) ConfigureInput(halcore.Pull) error { return nil }
func (p *fakePin) ConfigureOutput(b bool) error      { p.level = b; return nil }
func (p *fakePin) Set(b bool)                        { p.level = b }
func (p *fakePin) Get() bool                         { return p.level }
func (p *fakePin) Number() int                       { return 3 }

func TestBlockingPinCompletesInOnePoll(t *testing.T) {
	p := &fakePin{}
	bp := BlockingPin{Pin: p}
	if r := bp.PollSet(nil, true); !r.Ready || r.Err != nil {
		t.Fatalf("PollSet = %+v", r)
	}
	if r := bp.PollGet(nil); !r.Ready || !r.Value {
		t.Fatalf("PollGet = %+v", r)
	}
}

func TestBlockingI2CMapsErrors(t *testing.T) {
	bus := &fakeI2C{reply: []byte{0xAB}}
	b := BlockingI2C{Bus: bus}

	r := make([]byte, 1)
	if p := b.PollTransfer(nil, 0x40, []byte{0x01}, r); !p.Ready || p.Err != nil {
		t.Fatalf("transfer = %+v", p)
	}
	if bus.lastAddr != 0x40 || r[0] != 0xAB || len(bus.lastW) != 1 {
		t.Fatalf("unexpected bus use: addr=%#x w=%v r=%v", bus.lastAddr, bus.lastW, r)
	}

	bus.err = errcode.Nack
	p := b.PollWrite(nil, 0x40, []byte{0x02})
	if !p.Ready || !errors.Is(p.Err, errcode.Nack) {
		t.Fatalf("write = %+v, want ready nack", p)
	}

	bus.err = errors.New("arbitration lost")
	p = b.PollRead(nil, 0x40, r)
	if errcode.Of(p.Err) != errcode.BusFault {
		t.Fatalf("read err code = %q, want bus_fault", errcode.Of(p.Err))
	}
}

func TestBlockingSPITransfer(t *testing.T) {
	b := BlockingSPI{Bus: &fakeSPI{echo: true}}
	w := []byte{1, 2, 3}
	r := make([]byte, 3)
	if p := b.PollTransfer(task.NewContext(nil), w, r); !p.Ready || p.Err != nil {
		t.Fatalf("transfer = %+v", p)
	}
	if r[2] != 3 {
		t.Fatalf("r = %v", r)
	}
	if p := b.PollTransfer(nil, w, r[:1]); errcode.Of(p.Err) != errcode.Unsupported {
		t.Fatalf("length mismatch err = %v", p.Err)
	}
}
