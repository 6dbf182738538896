//go:build rp2040 || rp2350

package platform

import (
	"tinygo.org/x/drivers"

	"embedplat/hal/capability"
	"embedplat/hal/provider"
)

// RP2Factories maps plans onto the RP2 peripherals. I2C and SPI default
// to 400 kHz and 1 MHz.
func RP2Factories() Factories {
	return Factories{
		Pins: provider.RP2Pins{},
		I2C: func(p I2CPlan) (drivers.I2C, bool) {
			hz := p.Hz
			if hz == 0 {
				hz = 400_000
			}
			b, ok := provider.RP2I2C(p.ID, p.SDA, p.SCL, hz)
			if !ok {
				return nil, false
			}
			return b, true
		},
		SPI: func(p SPIPlan) (drivers.SPI, bool) {
			hz := p.Hz
			if hz == 0 {
				hz = 1_000_000
			}
			b, ok := provider.RP2SPI(p.ID, p.SCK, p.SDO, p.SDI, hz)
			if !ok {
				return nil, false
			}
			return b, true
		},
		UART: func(p UARTPlan) (SerialPort, bool) {
			u, ok := provider.RP2UART(p.ID, p.TX, p.RX, p.Baud)
			if !ok {
				return nil, false
			}
			return u, true
		},
		Timer: func(TimerPlan) (capability.Timer, bool) {
			return provider.NewClockTimer(nil), true
		},
	}
}
