//go:build !tinygo

package wake

// irqState is a placeholder for interrupt state on regular Go.
type irqState uintptr

// disableInterrupts is a no-op on regular Go; the slot is already atomic.
func disableInterrupts() irqState { return 0 }

func restoreInterrupts(irqState) {}
