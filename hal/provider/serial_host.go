//go:build !tinygo

package provider

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig holds host serial port configuration.
type SerialConfig struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string `json:"device"`
	Baud   int    `json:"baud"`
	// Read timeout in milliseconds (0 = blocking)
	ReadTimeoutMS int `json:"read_timeout_ms"`
	RXSize        int `json:"rx_size"`
}

// HostSerial is a tarm/serial device exposed as a UART capability.
type HostSerial struct {
	*StreamSerial
	port *serial.Port
}

// OpenHostSerial opens cfg.Device.
func OpenHostSerial(cfg SerialConfig) (*HostSerial, error) {
	if cfg.Baud <= 0 {
		cfg.Baud = 115200
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &HostSerial{StreamSerial: NewStreamSerial(port, cfg.RXSize), port: port}, nil
}

func (h *HostSerial) Close() error { return h.port.Close() }
