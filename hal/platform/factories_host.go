//go:build !tinygo

package platform

import (
	"strings"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"tinygo.org/x/drivers"

	"embedplat/hal/capability"
	"embedplat/hal/provider"
)

// Host is a Linux SBC exposing sysfs GPIO, I2C and SPI through periph.
var Host = Board{
	Name:    "host",
	GPIOMin: 0, GPIOMax: 63,
	I2C:    []string{"i2c0", "i2c1"},
	SPI:    []string{"spi0"},
	UART:   []string{"uart0", "uart1"},
	Timers: []string{"timer0"},
}

// HostFactories wires periph drivers and tarm serial devices. It
// initialises the periph host drivers once.
func HostFactories() (Factories, error) {
	if err := provider.InitPeriph(); err != nil {
		return Factories{}, err
	}
	return Factories{
		Pins: provider.PeriphPins{},
		I2C: func(p I2CPlan) (drivers.I2C, bool) {
			bus, err := i2creg.Open(strings.ToUpper(p.ID))
			if err != nil {
				println("[platform] i2c open", p.ID, "failed:", err.Error())
				return nil, false
			}
			if p.Hz > 0 {
				if err := bus.SetSpeed(physic.Hertz * physic.Frequency(p.Hz)); err != nil {
					println("[platform] i2c", p.ID, "set speed failed:", err.Error())
				}
			}
			return bus, true
		},
		SPI: func(p SPIPlan) (drivers.SPI, bool) {
			port, err := spireg.Open(strings.ToUpper(p.ID) + ".0")
			if err != nil {
				println("[platform] spi open", p.ID, "failed:", err.Error())
				return nil, false
			}
			hz := p.Hz
			if hz == 0 {
				hz = 1_000_000
			}
			conn, err := port.Connect(physic.Hertz*physic.Frequency(hz), spi.Mode0, 8)
			if err != nil {
				println("[platform] spi connect", p.ID, "failed:", err.Error())
				_ = port.Close()
				return nil, false
			}
			return periphSPI{conn}, true
		},
		UART: func(p UARTPlan) (SerialPort, bool) {
			if p.Device == "" {
				return nil, false
			}
			s, err := provider.OpenHostSerial(provider.SerialConfig{Device: p.Device, Baud: int(p.Baud)})
			if err != nil {
				println("[platform] serial", p.ID, "failed:", err.Error())
				return nil, false
			}
			return s, true
		},
		Timer: func(TimerPlan) (capability.Timer, bool) {
			return provider.NewClockTimer(nil), true
		},
	}, nil
}

// periphSPI adds the single-byte transfer drivers.SPI wants.
type periphSPI struct{ spi.Conn }

func (s periphSPI) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.Tx([]byte{b}, r[:])
	return r[0], err
}
