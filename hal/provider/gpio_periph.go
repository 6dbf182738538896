//go:build !tinygo

package provider

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"embedplat/errcode"
	"embedplat/hal/halcore"
)

// edgePoll bounds each WaitForEdge so ClearIRQ can stop the watcher.
const edgePoll = 100 * time.Millisecond

// PeriphPin adapts a periph.io line to halcore.IRQPin. Lines have no
// interrupt callback, so SetIRQ starts a watcher goroutine that blocks in
// WaitForEdge and plays the interrupt handler's role.
type PeriphPin struct {
	p gpio.PinIO

	mu      sync.Mutex
	stop    *atomic.Bool
	stopped chan struct{}
}

func NewPeriphPin(p gpio.PinIO) *PeriphPin { return &PeriphPin{p: p} }

func (l *PeriphPin) Number() int { return l.p.Number() }

func (l *PeriphPin) ConfigureInput(pull halcore.Pull) error {
	return l.p.In(toPeriphPull(pull), gpio.NoEdge)
}

func (l *PeriphPin) ConfigureOutput(initial bool) error {
	return l.p.Out(gpio.Level(initial))
}

// Set has no error return in halcore.GPIOPin; failures are logged.
func (l *PeriphPin) Set(level bool) {
	if err := l.p.Out(gpio.Level(level)); err != nil {
		println("[periph] set", l.p.Name(), "failed:", err.Error())
	}
}

func (l *PeriphPin) Get() bool { return l.p.Read() == gpio.High }

func (l *PeriphPin) SetIRQ(edge halcore.Edge, handler func()) error {
	if err := l.ClearIRQ(); err != nil {
		return err
	}
	if edge == halcore.EdgeNone {
		return nil
	}
	if err := l.p.In(gpio.PullNoChange, toPeriphEdge(edge)); err != nil {
		return err
	}
	stop := &atomic.Bool{}
	done := make(chan struct{})
	l.mu.Lock()
	l.stop, l.stopped = stop, done
	l.mu.Unlock()

	go func() {
		defer close(done)
		for !stop.Load() {
			if l.p.WaitForEdge(edgePoll) && !stop.Load() {
				handler()
			}
		}
	}()
	return nil
}

// ClearIRQ stops the watcher and waits for it to exit.
func (l *PeriphPin) ClearIRQ() error {
	l.mu.Lock()
	stop, done := l.stop, l.stopped
	l.stop, l.stopped = nil, nil
	l.mu.Unlock()
	if stop == nil {
		return nil
	}
	stop.Store(true)
	<-done
	return nil
}

func toPeriphPull(p halcore.Pull) gpio.Pull {
	switch p {
	case halcore.PullUp:
		return gpio.PullUp
	case halcore.PullDown:
		return gpio.PullDown
	default:
		return gpio.Float
	}
}

func toPeriphEdge(e halcore.Edge) gpio.Edge {
	switch e {
	case halcore.EdgeRising:
		return gpio.RisingEdge
	case halcore.EdgeFalling:
		return gpio.FallingEdge
	case halcore.EdgeBoth:
		return gpio.BothEdges
	default:
		return gpio.NoEdge
	}
}

// PeriphPins resolves GPIO numbers through the periph.io registry.
type PeriphPins struct{}

var hostInit sync.Once
var hostErr error

// InitPeriph loads the host drivers once.
func InitPeriph() error {
	hostInit.Do(func() {
		if _, err := host.Init(); err != nil {
			hostErr = errcode.Wrap(errcode.Unsupported, "periph.init", err)
		}
	})
	return hostErr
}

func (PeriphPins) ByNumber(n int) (halcore.IRQPin, bool) {
	p := gpioreg.ByName(strconv.Itoa(n))
	if p == nil {
		return nil, false
	}
	return NewPeriphPin(p), true
}

var (
	_ halcore.IRQPin     = (*PeriphPin)(nil)
	_ halcore.PinFactory = PeriphPins{}
)
