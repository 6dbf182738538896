//go:build rp2040 || rp2350

package provider

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"embedplat/hal/halcore"
)

// ---- GPIO (includes IRQ support) ----

// RP2Pins maps logical numbers directly to machine.Pin(n), matching
// Pico/Pico 2 GP numbering.
type RP2Pins struct{}

func (RP2Pins) ByNumber(n int) (halcore.IRQPin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &RP2Pin{p: machine.Pin(n), n: n}, true
}

type RP2Pin struct {
	p machine.Pin
	n int
}

func (r *RP2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *RP2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *RP2Pin) Set(level bool) { r.p.Set(level) }
func (r *RP2Pin) Get() bool      { return r.p.Get() }
func (r *RP2Pin) Number() int    { return r.n }

// SetIRQ runs handler straight from the GPIO interrupt.
func (r *RP2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *RP2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	case halcore.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}

// ---- I2C ----

// RP2I2C configures an on-chip I2C controller. *machine.I2C satisfies
// drivers.I2C.
func RP2I2C(id string, sda, scl int, hz uint32) (*machine.I2C, bool) {
	var hw *machine.I2C
	switch id {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, false
	}
	_ = hw.Configure(machine.I2CConfig{
		SDA:       machine.Pin(sda),
		SCL:       machine.Pin(scl),
		Frequency: hz,
	})
	return hw, true
}

// ---- SPI ----

// RP2SPI configures an on-chip SPI controller. machine.SPI satisfies
// drivers.SPI.
func RP2SPI(id string, sck, sdo, sdi int, hz uint32) (*machine.SPI, bool) {
	var hw *machine.SPI
	switch id {
	case "spi0":
		hw = machine.SPI0
	case "spi1":
		hw = machine.SPI1
	default:
		return nil, false
	}
	_ = hw.Configure(machine.SPIConfig{
		SCK:       machine.Pin(sck),
		SDO:       machine.Pin(sdo),
		SDI:       machine.Pin(sdi),
		Frequency: hz,
	})
	return hw, true
}

// ---- UART ----

// rp2SerialPort adapts uartx to halcore.UARTPort.
type rp2SerialPort struct{ u *uartx.UART }

func (p *rp2SerialPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2SerialPort) Read(b []byte) (int, error)  { return p.u.Read(b) }
func (p *rp2SerialPort) Buffered() int               { return p.u.Buffered() }
func (p *rp2SerialPort) Readable() <-chan struct{}   { return p.u.Readable() }
func (p *rp2SerialPort) SetBaudRate(br uint32)       { p.u.SetBaudRate(br) }

// RP2UART configures an on-chip UART and wraps it as a serial capability.
// The returned UART must be Run for reads to complete.
func RP2UART(id string, tx, rx int, baud uint32) (*UART, bool) {
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, false
	}
	// Defaults inside uartx apply if zero.
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	})
	return NewUART(&rp2SerialPort{u: hw}), true
}

var (
	_ halcore.IRQPin     = (*RP2Pin)(nil)
	_ halcore.PinFactory = RP2Pins{}
)
