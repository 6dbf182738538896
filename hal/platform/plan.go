package platform

import (
	"embedplat/errcode"
	"embedplat/hal/halcore"
	"embedplat/hal/internal/util"
)

// Plan specifies wiring chosen by a setup. Build consumes it to claim
// resources and construct handles.
type Plan struct {
	Outputs []OutputPlan `json:"outputs,omitempty"`
	Inputs  []InputPlan  `json:"inputs,omitempty"`
	I2C     []I2CPlan    `json:"i2c,omitempty"`
	SPI     []SPIPlan    `json:"spi,omitempty"`
	UART    []UARTPlan   `json:"uart,omitempty"`
	Timers  []TimerPlan  `json:"timers,omitempty"`
}

type OutputPlan struct {
	Name    string `json:"name"`
	Pin     int    `json:"pin"`
	Initial bool   `json:"initial,omitempty"`
}

type InputPlan struct {
	Name   string `json:"name"`
	Pin    int    `json:"pin"`
	Pull   string `json:"pull,omitempty"` // "up" | "down" | ""
	Edge   string `json:"edge,omitempty"` // "rising" | "falling" | "both" (default)
	Invert bool   `json:"invert,omitempty"`
}

type I2CPlan struct {
	ID  string `json:"id"`  // e.g. "i2c0"
	SDA int    `json:"sda"` // GPIO number
	SCL int    `json:"scl"` // GPIO number
	Hz  uint32 `json:"hz,omitempty"`
}

type SPIPlan struct {
	ID  string `json:"id"` // e.g. "spi0"
	SCK int    `json:"sck"`
	SDO int    `json:"sdo"`
	SDI int    `json:"sdi"`
	Hz  uint32 `json:"hz,omitempty"`
}

type UARTPlan struct {
	ID     string `json:"id"` // e.g. "uart0"
	TX     int    `json:"tx"`
	RX     int    `json:"rx"`
	Baud   uint32 `json:"baud,omitempty"`
	Device string `json:"device,omitempty"` // host serial device path
}

type TimerPlan struct {
	ID string `json:"id"` // e.g. "timer0"
}

// Decode reads a Plan from JSON bytes, a JSON string or a decoded map.
func Decode(src any) (Plan, error) {
	var p Plan
	if err := util.DecodeJSON(src, &p); err != nil {
		return Plan{}, &errcode.E{C: errcode.InvalidPlan, Op: "decode", Msg: err.Error(), Err: err}
	}
	return p, p.Validate()
}

// Validate checks names and enumerations. Resource conflicts are left to
// Build, which reports them as claim failures.
func (p Plan) Validate() error {
	names := map[string]bool{}
	for _, o := range p.Outputs {
		if err := uniqueName(names, o.Name); err != nil {
			return err
		}
	}
	for _, in := range p.Inputs {
		if err := uniqueName(names, in.Name); err != nil {
			return err
		}
		if in.Edge != "" && halcore.ParseEdge(in.Edge) == halcore.EdgeNone {
			return invalid("unknown edge " + in.Edge)
		}
		switch in.Pull {
		case "", "none", "up", "down":
		default:
			return invalid("unknown pull " + in.Pull)
		}
	}
	return nil
}

func uniqueName(seen map[string]bool, name string) error {
	if name == "" {
		return invalid("empty pin name")
	}
	if seen[name] {
		return invalid("duplicate pin name " + name)
	}
	seen[name] = true
	return nil
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidPlan, Op: "validate", Msg: msg}
}

func parsePull(s string) halcore.Pull {
	switch s {
	case "up":
		return halcore.PullUp
	case "down":
		return halcore.PullDown
	default:
		return halcore.PullNone
	}
}
