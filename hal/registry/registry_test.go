package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"embedplat/errcode"
	"embedplat/hal/halcore"
)

func TestClaimOnce(t *testing.T) {
	r := New(halcore.GPIO(5), "i2c0", halcore.GPIO(5))
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (duplicates folded)", r.Len())
	}
	if err := r.Claim(halcore.GPIO(5)); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	for i := 0; i < 3; i++ {
		err := r.Claim(halcore.GPIO(5))
		if !errors.Is(err, errcode.ResourceInUse) {
			t.Fatalf("claim %d: err = %v, want resource_in_use", i+2, err)
		}
	}
	if !r.Claimed(halcore.GPIO(5)) || r.Claimed("i2c0") {
		t.Fatal("Claimed reports wrong state")
	}
}

func TestClaimUnknown(t *testing.T) {
	r := New("uart0")
	if err := r.Claim("uart9"); errcode.Of(err) != errcode.UnknownResource {
		t.Fatalf("err = %v, want unknown_resource", err)
	}
	if r.Known("uart9") || !r.Known("uart0") {
		t.Fatal("Known reports wrong state")
	}
}

func TestConcurrentClaimHasOneWinner(t *testing.T) {
	r := New("spi0")
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Claim("spi0") == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("winners = %d, want 1", wins.Load())
	}
}

func TestSlotTake(t *testing.T) {
	s := NewSlot[int](halcore.GPIO(2), 42)
	h, err := s.Take()
	if err != nil || h != 42 {
		t.Fatalf("Take = %d, %v", h, err)
	}
	if _, err := s.Take(); !errors.Is(err, errcode.ResourceInUse) {
		t.Fatalf("second Take err = %v", err)
	}
	if s.ID() != "gpio2" {
		t.Fatalf("ID = %q", s.ID())
	}
}

func TestTakeBuildsOnlyAfterClaim(t *testing.T) {
	r := New("timer0")
	built := 0
	mk := func() (string, error) { built++; return "t0", nil }
	if h, err := Take(r, "timer0", mk); err != nil || h != "t0" {
		t.Fatalf("Take = %q, %v", h, err)
	}
	if _, err := Take(r, "timer0", mk); !errors.Is(err, errcode.ResourceInUse) {
		t.Fatalf("second Take err = %v", err)
	}
	if built != 1 {
		t.Fatalf("built = %d, want 1", built)
	}
}
