package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]error{
		"resource_in_use":  ResourceInUse,
		"unknown_resource": UnknownResource,
		"nack":             Nack,
		"bus_fault":        BusFault,
		"timeout":          Timeout,
		"busy":             Busy,
	}
	for want, e := range cases {
		if e.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, e.Error())
		}
	}
}

func TestOfUnwrapsWrappedCodes(t *testing.T) {
	e := &E{C: ResourceInUse, Op: "claim", Msg: "gpio5"}
	wrapped := fmt.Errorf("build: %w", e)
	if got := Of(wrapped); got != ResourceInUse {
		t.Fatalf("Of = %q, want %q", got, ResourceInUse)
	}
	if !errors.Is(wrapped, ResourceInUse) {
		t.Fatal("errors.Is should match the code")
	}
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q", got)
	}
	if got := Of(errors.New("x")); got != Error {
		t.Fatalf("Of(plain) = %q", got)
	}
}

func TestMapDriverErr(t *testing.T) {
	if MapDriverErr(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if MapDriverErr(Nack) != Nack {
		t.Fatal("coded errors keep their code")
	}
	if MapDriverErr(errors.New("i2c: arbitration lost")) != BusFault {
		t.Fatal("plain driver errors are bus faults")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(Nack, "i2c.read", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
	cause := errors.New("no ack")
	err := Wrap(Nack, "i2c.read", cause)
	if !errors.Is(err, cause) || !errors.Is(err, Nack) {
		t.Fatalf("wrapped error lost identity: %v", err)
	}
	if err.Error() != "i2c.read: nack: no ack" {
		t.Fatalf("unexpected text %q", err.Error())
	}
}

func TestOfPrefersOutermostCode(t *testing.T) {
	err := Wrap(BusFault, "spi", Nack)
	if Of(err) != BusFault {
		t.Fatalf("Of = %q, want bus_fault", Of(err))
	}
}
