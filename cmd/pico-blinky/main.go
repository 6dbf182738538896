//go:build rp2040 || rp2350

// Command pico-blinky blinks the on-board LED and logs presses of a
// button on GP15 using the async platform on a Raspberry Pi Pico.
package main

import (
	"context"
	"runtime"
	"time"

	"embedplat/hal/capability"
	"embedplat/hal/future"
	"embedplat/hal/platform"
	"embedplat/task"
)

var plan = platform.Plan{
	Outputs: []platform.OutputPlan{{Name: "onboard", Pin: 25}},
	Inputs:  []platform.InputPlan{{Name: "button", Pin: 15, Pull: "up", Edge: "falling"}},
	UART:    []platform.UARTPlan{{ID: "uart0", TX: 0, RX: 1, Baud: 115200}},
	Timers:  []platform.TimerPlan{{ID: "timer0"}},
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	ctx := context.Background()

	println("[main] building platform …")
	p, err := platform.Build(platform.Pico, plan, platform.RP2Factories(), platform.Options{})
	if err != nil {
		println("[main] build error:", err.Error())
		return
	}
	p.Start(ctx)

	led, _ := p.Output("onboard")
	tm, _ := p.Timer("timer0")
	ser, _ := p.Serial("uart0")
	btn, _ := p.Input("button")
	seq, _ := btn.Changes()

	ex := task.NewExecutor(2)

	// Blink: toggle, sleep 500ms, forever.
	on := false
	var sleep *future.WaitUntilOp[capability.Timer]
	_ = ex.Spawn(task.FutureFunc[struct{}](func(cx *task.Context) task.Poll[struct{}] {
		for {
			if sleep == nil {
				on = !on
				future.Set(led, on).Poll(cx)
				op := future.Sleep(tm, 500*time.Millisecond)
				sleep = &op
			}
			if !sleep.Poll(cx).Ready {
				return task.Pending[struct{}]()
			}
			sleep = nil
		}
	}))

	// Presses: report each on uart0.
	var (
		write   future.WriteAllOp[capability.Serial]
		writing bool
	)
	presses := 0
	_ = ex.Spawn(task.FutureFunc[struct{}](func(cx *task.Context) task.Poll[struct{}] {
		for {
			if writing {
				if r := write.Poll(cx); !r.Ready {
					return task.Pending[struct{}]()
				}
				writing = false
			}
			r := seq.PollNext(cx)
			if !r.Ready {
				return task.Pending[struct{}]()
			}
			if r.Err != nil {
				return task.ReadyErr[struct{}](r.Err)
			}
			presses++
			println("[button] press", presses)
			printMem()
			write, writing = future.WriteAll(ser, []byte("press\r\n")), true
		}
	}))

	if err := ex.Run(ctx); err != nil {
		println("[main] run error:", err.Error())
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"heapSys:", uint32(ms.HeapSys),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
