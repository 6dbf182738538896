package platform

import (
	"github.com/benbjohnson/clock"
	"tinygo.org/x/drivers"

	"embedplat/hal/capability"
	"embedplat/hal/provider"
)

// SimBuses keeps the in-memory buses SimFactories hands out, so callers
// can attach devices and inspect traffic.
type SimBuses struct {
	I2C map[string]*provider.SimI2C
	SPI map[string]*provider.SimSPI
}

// SimFactories builds collaborators for the Sim board: simulated pins,
// register-file I2C, loopback SPI and UART, and timers on clk.
func SimFactories(pins *provider.SimPins, clk clock.Clock) (Factories, *SimBuses) {
	buses := &SimBuses{I2C: map[string]*provider.SimI2C{}, SPI: map[string]*provider.SimSPI{}}
	return Factories{
		Pins: pins,
		I2C: func(p I2CPlan) (drivers.I2C, bool) {
			b := provider.NewSimI2C()
			buses.I2C[p.ID] = b
			return b, true
		},
		SPI: func(p SPIPlan) (drivers.SPI, bool) {
			b := &provider.SimSPI{}
			buses.SPI[p.ID] = b
			return b, true
		},
		UART: func(UARTPlan) (SerialPort, bool) {
			return provider.NewStreamSerial(provider.Loopback(), 256), true
		},
		Timer: func(TimerPlan) (capability.Timer, bool) {
			return provider.NewClockTimer(clk), true
		},
	}, buses
}
