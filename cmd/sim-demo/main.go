// Command sim-demo runs the platform on the simulated board: an LED
// blinker and a button watcher share one cooperative executor while a
// goroutine plays the part of a finger on the button.
package main

import (
	"context"
	"runtime"
	"time"

	"embedplat/hal/capability"
	"embedplat/hal/future"
	"embedplat/hal/pin"
	"embedplat/hal/platform"
	"embedplat/hal/provider"
	"embedplat/task"
)

const (
	ledPin    = 25
	buttonPin = 15
)

// blinker toggles led every period, count times.
type blinker struct {
	led    capability.BlockingPin
	timer  capability.Timer
	period time.Duration
	count  int

	on    bool
	sleep *future.WaitUntilOp[capability.Timer]
}

func (b *blinker) Poll(cx *task.Context) task.Poll[struct{}] {
	for b.count > 0 {
		if b.sleep == nil {
			b.on = !b.on
			if r := future.Set(b.led, b.on).Poll(cx); r.Err != nil {
				return task.ReadyErr[struct{}](r.Err)
			}
			op := future.Sleep(b.timer, b.period)
			b.sleep = &op
		}
		if r := b.sleep.Poll(cx); !r.Ready {
			return task.Pending[struct{}]()
		}
		b.sleep = nil
		b.count--
	}
	return task.ReadyOK(struct{}{})
}

// watcher prints every change on the button until it has seen want.
type watcher struct {
	seq  *pin.Changes[capability.BlockingPin]
	want int
	seen int
}

func (w *watcher) Poll(cx *task.Context) task.Poll[struct{}] {
	for w.seen < w.want {
		r := w.seq.PollNext(cx)
		if !r.Ready {
			return task.Pending[struct{}]()
		}
		if r.Err != nil {
			return task.ReadyErr[struct{}](r.Err)
		}
		w.seen++
		println("[button]", r.Value.Edge.String(), "level", r.Value.Level, "at", r.Value.TS.Format("15:04:05.000"))
	}
	w.seq.Close()
	return task.ReadyOK(struct{}{})
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pins := provider.NewSimPins(platform.Sim.GPIOMin, platform.Sim.GPIOMax)
	f, _ := platform.SimFactories(pins, nil)

	plan := platform.Plan{
		Outputs: []platform.OutputPlan{{Name: "led", Pin: ledPin}},
		Inputs:  []platform.InputPlan{{Name: "button", Pin: buttonPin, Pull: "up", Invert: true}},
		Timers:  []platform.TimerPlan{{ID: "timer0"}},
	}
	println("[main] building platform on board", platform.Sim.Name, "…")
	p, err := platform.Build(platform.Sim, plan, f, platform.Options{})
	if err != nil {
		println("[main] build error:", err.Error())
		return
	}
	defer p.Close()
	p.Start(ctx)

	// Idle high with the pull-up; pressed reads low, inverted to true.
	pins.Sim(buttonPin).Drive(true)

	led, _ := p.Output("led")
	tm, _ := p.Timer("timer0")
	btn, _ := p.Input("button")
	seq, _ := btn.Changes()

	ex := task.NewExecutor(4)
	_ = ex.Spawn(&blinker{led: led, timer: tm, period: 200 * time.Millisecond, count: 10})
	_ = ex.Spawn(&watcher{seq: seq, want: 6})

	go func() {
		for i := 0; i < 6; i++ {
			time.Sleep(300 * time.Millisecond)
			pins.Sim(buttonPin).Drive(i%2 == 1)
		}
	}()

	if err := ex.Run(ctx); err != nil {
		println("[main] run error:", err.Error())
	}
	println("[main] led sets:", pins.Sim(ledPin).Sets(), "coalesced edges:", p.Bridge().Dropped())
	printMem()
}

// printMem prints a compact snapshot of runtime memory stats.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
