package provider

import (
	"context"
	"io"
	"sync/atomic"

	"embedplat/hal/halcore"
	"embedplat/x/mathx"
	"embedplat/x/shmring"
)

// StreamPort turns a blocking byte stream into a halcore.UARTPort. Run
// reads the stream into an SPSC ring; the ring's readable edge is what
// the UART capability waits on.
type StreamPort struct {
	rw    io.ReadWriter
	ring  *shmring.Ring
	chunk int
	err   atomic.Pointer[error]
	drops atomic.Uint32
}

// NewStreamPort sizes the RX ring to the next power of two in [64, 64K].
func NewStreamPort(rw io.ReadWriter, rxSize int) *StreamPort {
	size := mathx.NextPow2(mathx.Clamp(rxSize, 64, 1<<16))
	return &StreamPort{
		rw:    rw,
		ring:  shmring.New(size),
		chunk: mathx.Min(size, 256),
	}
}

func (s *StreamPort) Write(p []byte) (int, error) { return s.rw.Write(p) }
func (s *StreamPort) Buffered() int               { return s.ring.Available() }
func (s *StreamPort) Readable() <-chan struct{}   { return s.ring.Readable() }

func (s *StreamPort) Read(p []byte) (int, error) {
	n := s.ring.ReadInto(p)
	if n == 0 {
		return 0, s.Err()
	}
	return n, nil
}

// Run pumps the stream until ctx ends or the stream fails. When the ring
// is full it waits for the consumer; bytes still pending when ctx ends are
// dropped and counted by Dropped.
func (s *StreamPort) Run(ctx context.Context) {
	buf := make([]byte, s.chunk)
	for ctx.Err() == nil {
		n, err := s.rw.Read(buf)
		if !s.push(ctx, buf[:n]) {
			return
		}
		if err != nil {
			s.err.Store(&err)
			s.ring.Notify()
			return
		}
	}
}

func (s *StreamPort) push(ctx context.Context, p []byte) bool {
	for len(p) > 0 {
		p = p[s.ring.WriteFrom(p):]
		if len(p) == 0 || s.ring.Space() > 0 {
			continue
		}
		select {
		case <-s.ring.Writable():
		case <-ctx.Done():
			s.drops.Add(uint32(len(p)))
			return false
		}
	}
	return true
}

// Err is the error that stopped Run, if any.
func (s *StreamPort) Err() error {
	if e := s.err.Load(); e != nil {
		return *e
	}
	return nil
}

// Dropped counts RX bytes discarded at shutdown.
func (s *StreamPort) Dropped() uint32 { return s.drops.Load() }

// StreamSerial bundles a StreamPort with the UART capability over it.
type StreamSerial struct {
	*UART
	Stream *StreamPort
}

func NewStreamSerial(rw io.ReadWriter, rxSize int) *StreamSerial {
	sp := NewStreamPort(rw, rxSize)
	return &StreamSerial{UART: NewUART(sp), Stream: sp}
}

// Run pumps both the byte stream and the UART wake-ups until ctx ends.
func (s *StreamSerial) Run(ctx context.Context) {
	go s.Stream.Run(ctx)
	s.UART.Run(ctx)
}

// Loopback is an in-memory stream whose writes come back as reads.
func Loopback() io.ReadWriter {
	pr, pw := io.Pipe()
	return struct {
		io.Reader
		io.Writer
	}{pr, pw}
}

var (
	_ halcore.UARTPort = (*StreamPort)(nil)
	_ halcore.Runner   = (*StreamPort)(nil)
)
