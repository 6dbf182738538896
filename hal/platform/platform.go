// Package platform assembles a board: it claims every resource a Plan
// names exactly once, wires pin interrupts into the wake bridge and hands
// out typed capability handles. Nothing is claimed or released after
// Build returns.
package platform

import (
	"context"

	"tinygo.org/x/drivers"

	"embedplat/errcode"
	"embedplat/hal/capability"
	"embedplat/hal/halcore"
	"embedplat/hal/pin"
	"embedplat/hal/registry"
	"embedplat/hal/wake"
)

// SerialPort is a serial capability with its background pump.
type SerialPort interface {
	capability.Serial
	halcore.Runner
}

// Factories supplies concrete collaborators. Unset factories make the
// corresponding plan entries fail with errcode.Unsupported.
type Factories struct {
	Pins  halcore.PinFactory
	I2C   func(p I2CPlan) (drivers.I2C, bool)
	SPI   func(p SPIPlan) (drivers.SPI, bool)
	UART  func(p UARTPlan) (SerialPort, bool)
	Timer func(p TimerPlan) (capability.Timer, bool)
}

// Options tune Build.
type Options struct {
	// Registry lets several Builds share one process-wide table. When nil
	// a fresh table over Board.Resources is used.
	Registry *registry.Registry
	// Changes configures the change sequences of inputs.
	Changes pin.Options
}

// Input is a claimed input line.
type Input struct {
	capability.BlockingPin
	ID      halcore.ResourceID
	changes *registry.Slot[*pin.Changes[capability.BlockingPin]]
}

// Changes takes the input's single change sequence. A second call fails
// with errcode.ResourceInUse: the sequence has one cursor.
func (in *Input) Changes() (*pin.Changes[capability.BlockingPin], error) {
	return in.changes.Take()
}

// Platform owns the handles produced by Build.
type Platform struct {
	Board  Board
	reg    *registry.Registry
	bridge *wake.Bridge

	outputs map[string]*registry.Slot[capability.BlockingPin]
	inputs  map[string]*registry.Slot[*Input]
	i2c     map[string]*registry.Slot[capability.I2C]
	spi     map[string]*registry.Slot[capability.SPITransfer]
	serial  map[string]*registry.Slot[SerialPort]
	timers  map[string]*registry.Slot[capability.Timer]

	runners []halcore.Runner
	cancels []func()
}

// Build claims everything plan names on board. The first conflict aborts
// construction; nothing partially built is returned.
func Build(board Board, plan Plan, f Factories, opts Options) (*Platform, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New(board.Resources()...)
	}
	watched := make([]halcore.ResourceID, 0, len(plan.Inputs))
	for _, in := range plan.Inputs {
		watched = append(watched, halcore.GPIO(in.Pin))
	}
	p := &Platform{
		Board:   board,
		reg:     reg,
		bridge:  wake.NewBridge(watched...),
		outputs: map[string]*registry.Slot[capability.BlockingPin]{},
		inputs:  map[string]*registry.Slot[*Input]{},
		i2c:     map[string]*registry.Slot[capability.I2C]{},
		spi:     map[string]*registry.Slot[capability.SPITransfer]{},
		serial:  map[string]*registry.Slot[SerialPort]{},
		timers:  map[string]*registry.Slot[capability.Timer]{},
	}
	if err := p.build(plan, f, opts); err != nil {
		println("[platform] build failed:", err.Error())
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Platform) build(plan Plan, f Factories, opts Options) error {
	for _, o := range plan.Outputs {
		gp, err := p.claimPin(f, o.Pin)
		if err != nil {
			return err
		}
		if err := gp.ConfigureOutput(o.Initial); err != nil {
			return errcode.Wrap(errcode.MapDriverErr(err), "configure "+o.Name, err)
		}
		p.outputs[o.Name] = registry.NewSlot(halcore.GPIO(o.Pin), capability.BlockingPin{Pin: gp})
	}

	for _, in := range plan.Inputs {
		id := halcore.GPIO(in.Pin)
		gp, err := p.claimPin(f, in.Pin)
		if err != nil {
			return err
		}
		if err := gp.ConfigureInput(parsePull(in.Pull)); err != nil {
			return errcode.Wrap(errcode.MapDriverErr(err), "configure "+in.Name, err)
		}
		edge := halcore.EdgeBoth
		if in.Edge != "" {
			edge = halcore.ParseEdge(in.Edge)
		}
		// The interrupt fires on both edges; the sequence filters by edge
		// after re-reading the level.
		cancel, err := p.bridge.Watch(id, gp, halcore.EdgeBoth)
		if err != nil {
			return err
		}
		p.cancels = append(p.cancels, cancel)

		bp := capability.BlockingPin{Pin: gp}
		co := opts.Changes
		co.Edge, co.Invert = edge, in.Invert
		seq := pin.New(bp, p.bridge.Slot(id), co)
		p.inputs[in.Name] = registry.NewSlot(id, &Input{
			BlockingPin: bp,
			ID:          id,
			changes:     registry.NewSlot(id, seq),
		})
	}

	for _, b := range plan.I2C {
		if err := p.claimAll(halcore.ResourceID(b.ID), halcore.GPIO(b.SDA), halcore.GPIO(b.SCL)); err != nil {
			return err
		}
		if f.I2C == nil {
			return unsupported(b.ID)
		}
		bus, ok := f.I2C(b)
		if !ok {
			return unknownBus(b.ID)
		}
		p.i2c[b.ID] = registry.NewSlot[capability.I2C](halcore.ResourceID(b.ID), capability.BlockingI2C{Bus: bus})
	}

	for _, b := range plan.SPI {
		if err := p.claimAll(halcore.ResourceID(b.ID), halcore.GPIO(b.SCK), halcore.GPIO(b.SDO), halcore.GPIO(b.SDI)); err != nil {
			return err
		}
		if f.SPI == nil {
			return unsupported(b.ID)
		}
		bus, ok := f.SPI(b)
		if !ok {
			return unknownBus(b.ID)
		}
		p.spi[b.ID] = registry.NewSlot[capability.SPITransfer](halcore.ResourceID(b.ID), capability.BlockingSPI{Bus: bus})
	}

	for _, u := range plan.UART {
		ids := []halcore.ResourceID{halcore.ResourceID(u.ID)}
		if u.Device == "" {
			ids = append(ids, halcore.GPIO(u.TX), halcore.GPIO(u.RX))
		}
		if err := p.claimAll(ids...); err != nil {
			return err
		}
		if f.UART == nil {
			return unsupported(u.ID)
		}
		sp, ok := f.UART(u)
		if !ok {
			return unknownBus(u.ID)
		}
		p.runners = append(p.runners, sp)
		p.serial[u.ID] = registry.NewSlot(halcore.ResourceID(u.ID), sp)
	}

	for _, tp := range plan.Timers {
		if err := p.reg.Claim(halcore.ResourceID(tp.ID)); err != nil {
			return err
		}
		if f.Timer == nil {
			return unsupported(tp.ID)
		}
		tm, ok := f.Timer(tp)
		if !ok {
			return &errcode.E{C: errcode.UnknownResource, Op: "timer", Msg: tp.ID}
		}
		p.timers[tp.ID] = registry.NewSlot(halcore.ResourceID(tp.ID), tm)
	}
	return nil
}

func (p *Platform) claimPin(f Factories, n int) (halcore.IRQPin, error) {
	if err := p.reg.Claim(halcore.GPIO(n)); err != nil {
		return nil, err
	}
	if f.Pins == nil {
		return nil, unsupported(string(halcore.GPIO(n)))
	}
	gp, ok := f.Pins.ByNumber(n)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "pin", Msg: string(halcore.GPIO(n))}
	}
	return gp, nil
}

// claimAll claims ids in order. Claims are never rolled back: a failed
// Build is fatal to the process's wiring.
func (p *Platform) claimAll(ids ...halcore.ResourceID) error {
	for _, id := range ids {
		if err := p.reg.Claim(id); err != nil {
			return err
		}
	}
	return nil
}

func unsupported(id string) error {
	return &errcode.E{C: errcode.Unsupported, Op: "factory", Msg: id}
}

func unknownBus(id string) error {
	return &errcode.E{C: errcode.UnknownBus, Op: "factory", Msg: id}
}

// ---- handle accessors (each handle can be taken once) ----

func take[H any](m map[string]*registry.Slot[H], name string) (H, error) {
	s, ok := m[name]
	if !ok {
		var zero H
		return zero, &errcode.E{C: errcode.UnknownResource, Op: "take", Msg: name}
	}
	return s.Take()
}

func (p *Platform) Output(name string) (capability.BlockingPin, error) { return take(p.outputs, name) }
func (p *Platform) Input(name string) (*Input, error)                  { return take(p.inputs, name) }
func (p *Platform) I2C(id string) (capability.I2C, error)              { return take(p.i2c, id) }
func (p *Platform) SPI(id string) (capability.SPITransfer, error)      { return take(p.spi, id) }
func (p *Platform) Serial(id string) (capability.Serial, error) {
	return take(p.serial, id)
}
func (p *Platform) Timer(id string) (capability.Timer, error) { return take(p.timers, id) }

// Registry exposes the claim table, e.g. to share it with a later Build.
func (p *Platform) Registry() *registry.Registry { return p.reg }

// Bridge exposes the wake bridge for diagnostics (coalesced edge counts).
func (p *Platform) Bridge() *wake.Bridge { return p.bridge }

// Start launches background pumps (serial RX). They stop with ctx.
func (p *Platform) Start(ctx context.Context) {
	for _, r := range p.runners {
		go r.Run(ctx)
	}
}

// Close removes interrupt handlers. Claims stay in place.
func (p *Platform) Close() {
	for _, c := range p.cancels {
		c()
	}
	p.cancels = nil
}
