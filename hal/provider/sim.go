package provider

import (
	"sync"

	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/hal/halcore"
	"embedplat/task"
	"embedplat/x/mathx"

	"tinygo.org/x/drivers"
)

// ----------------------------- GPIO (sim) ------------------------------------

// SimPin implements halcore.IRQPin and the pin capabilities in memory.
// Drive simulates an external signal and runs the IRQ handler the way an
// interrupt would.
type SimPin struct {
	mu      sync.Mutex
	number  int
	level   bool
	modeOut bool
	irqEdge halcore.Edge
	irqFunc func()
	sets    int
}

func NewSimPin(n int) *SimPin { return &SimPin{number: n} }

func (p *SimPin) ConfigureInput(halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.mu.Unlock()
	return nil
}

func (p *SimPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.sets++
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPin) Number() int { return p.number }

func (p *SimPin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge, p.irqFunc = edge, handler
	p.mu.Unlock()
	return nil
}

func (p *SimPin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge, p.irqFunc = halcore.EdgeNone, nil
	p.mu.Unlock()
	return nil
}

// Drive forces the line to level and raises the interrupt if the
// transition matches the configured edge.
func (p *SimPin) Drive(level bool) {
	p.mu.Lock()
	e := halcore.EdgeBetween(p.level, level)
	p.level = level
	h, sel := p.irqFunc, p.irqEdge
	p.mu.Unlock()
	if h != nil && sel.Matches(e) {
		h()
	}
}

// Sets counts output writes.
func (p *SimPin) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

func (p *SimPin) PollSet(_ *task.Context, high bool) task.Poll[capability.Unit] {
	p.Set(high)
	return task.ReadyOK(capability.Unit{})
}

func (p *SimPin) PollGet(_ *task.Context) task.Poll[bool] {
	return task.ReadyOK(p.Get())
}

// SimPins is a PinFactory over a fixed range of SimPins.
type SimPins struct {
	pins map[int]*SimPin
}

func NewSimPins(min, max int) *SimPins {
	s := &SimPins{pins: make(map[int]*SimPin, max-min+1)}
	for n := min; n <= max; n++ {
		s.pins[n] = NewSimPin(n)
	}
	return s
}

func (s *SimPins) ByNumber(n int) (halcore.IRQPin, bool) {
	p, ok := s.pins[n]
	return p, ok
}

// Sim returns the concrete pin for driving it in tests and demos.
func (s *SimPins) Sim(n int) *SimPin { return s.pins[n] }

// ----------------------------- I²C (sim) -------------------------------------

// SimI2C implements drivers.I2C with register-file devices. A transaction
// to an address with no device fails with errcode.Nack.
type SimI2C struct {
	mu   sync.Mutex
	devs map[uint16][]byte
	ptr  map[uint16]int
}

var _ drivers.I2C = (*SimI2C)(nil)

func NewSimI2C() *SimI2C {
	return &SimI2C{devs: map[uint16][]byte{}, ptr: map[uint16]int{}}
}

// AddDevice attaches a device with a register file of regs bytes.
func (b *SimI2C) AddDevice(addr uint16, regs int) {
	b.mu.Lock()
	b.devs[addr] = make([]byte, mathx.Max(regs, 1))
	b.mu.Unlock()
}

// Tx follows the common register convention: the first written byte sets
// the register pointer, further written bytes are stored from there, and
// reads continue from the pointer.
func (b *SimI2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs, ok := b.devs[addr]
	if !ok {
		return errcode.Nack
	}
	p := b.ptr[addr]
	if len(w) > 0 {
		p = int(w[0])
		for _, v := range w[1:] {
			regs[p%len(regs)] = v
			p++
		}
	}
	for i := range r {
		r[i] = regs[p%len(regs)]
		p++
	}
	b.ptr[addr] = p % len(regs)
	return nil
}

// ----------------------------- SPI (sim) -------------------------------------

// SimSPI is a loopback bus: bytes written are read back.
type SimSPI struct {
	mu  sync.Mutex
	txN int
}

var _ drivers.SPI = (*SimSPI)(nil)

func (s *SimSPI) Tx(w, r []byte) error {
	s.mu.Lock()
	s.txN += len(w)
	s.mu.Unlock()
	copy(r, w)
	return nil
}

func (s *SimSPI) Transfer(b byte) (byte, error) {
	s.mu.Lock()
	s.txN++
	s.mu.Unlock()
	return b, nil
}

// Clocked returns the number of bytes shifted out.
func (s *SimSPI) Clocked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txN
}
