// Package halcore holds the register-level collaborator contracts that
// capability providers are built on, plus the shared resource vocabulary.
package halcore

import (
	"context"
	"strconv"
)

// ResourceID names one physical resource, e.g. "gpio25", "i2c0", "uart1".
type ResourceID string

// GPIO returns the resource id for GPIO line n.
func GPIO(n int) ResourceID { return ResourceID("gpio" + strconv.Itoa(n)) }

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseEdge is the inverse of Edge.String; unknown strings map to EdgeNone.
func ParseEdge(s string) Edge {
	switch s {
	case "rising":
		return EdgeRising
	case "falling":
		return EdgeFalling
	case "both":
		return EdgeBoth
	default:
		return EdgeNone
	}
}

// EdgeBetween classifies a level transition.
func EdgeBetween(prev, cur bool) Edge {
	switch {
	case !prev && cur:
		return EdgeRising
	case prev && !cur:
		return EdgeFalling
	default:
		return EdgeNone
	}
}

// Matches reports whether an observed edge is selected by e.
func (e Edge) Matches(observed Edge) bool {
	switch e {
	case EdgeBoth:
		return observed == EdgeRising || observed == EdgeFalling
	case EdgeNone:
		return false
	default:
		return e == observed
	}
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context: it must not block, allocate or take locks.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

// ---------------- UART abstractions ----------------

type UARTPort interface {
	// TX
	Write(p []byte) (int, error)

	// RX
	Buffered() int
	Read(p []byte) (int, error)
	Readable() <-chan struct{}
}

// UARTFormatter is optional: formatting where the platform supports it.
type UARTFormatter interface {
	SetBaudRate(br uint32)
}

// Runner is implemented by providers that own a background pump.
type Runner interface {
	Run(ctx context.Context)
}
