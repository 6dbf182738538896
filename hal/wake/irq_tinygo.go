//go:build tinygo

package wake

import "runtime/interrupt"

type irqState = interrupt.State

// disableInterrupts masks interrupts and returns the previous state.
func disableInterrupts() irqState { return interrupt.Disable() }

func restoreInterrupts(st irqState) { interrupt.Restore(st) }
