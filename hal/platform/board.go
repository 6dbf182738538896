package platform

import "embedplat/hal/halcore"

// Board describes what the PCB/SoC can do (controllers present, GPIO range).
// It must not include wiring choices (pins) or operating parameters (clock rates).
type Board struct {
	Name             string
	GPIOMin, GPIOMax int

	// Controllers present (identities only; e.g. "i2c0", "uart1").
	I2C    []string
	SPI    []string
	UART   []string
	Timers []string
}

// Resources lists every claimable resource on the board.
func (b Board) Resources() []halcore.ResourceID {
	ids := make([]halcore.ResourceID, 0, b.GPIOMax-b.GPIOMin+1+len(b.I2C)+len(b.SPI)+len(b.UART)+len(b.Timers))
	for n := b.GPIOMin; n <= b.GPIOMax; n++ {
		ids = append(ids, halcore.GPIO(n))
	}
	for _, group := range [][]string{b.I2C, b.SPI, b.UART, b.Timers} {
		for _, id := range group {
			ids = append(ids, halcore.ResourceID(id))
		}
	}
	return ids
}

// Pico is the RP2040 Pico: GP0..GP28, two of each controller.
var Pico = Board{
	Name:    "pico",
	GPIOMin: 0, GPIOMax: 28,
	I2C:    []string{"i2c0", "i2c1"},
	SPI:    []string{"spi0", "spi1"},
	UART:   []string{"uart0", "uart1"},
	Timers: []string{"timer0"},
}

// Sim is the in-memory board used on hosts without hardware.
var Sim = Board{
	Name:    "sim",
	GPIOMin: 0, GPIOMax: 31,
	I2C:    []string{"i2c0"},
	SPI:    []string{"spi0"},
	UART:   []string{"uart0"},
	Timers: []string{"timer0", "timer1"},
}
