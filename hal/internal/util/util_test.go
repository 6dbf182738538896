package util

import "testing"

func TestDecodeJSON(t *testing.T) {
	type P struct {
		A int    `json:"a"`
		B string `json:"b"`
	}

	for name, in := range map[string]any{
		"bytes":  []byte(`{"a":1,"b":"x"}`),
		"string": `{"a":1,"b":"x"}`,
		"map":    map[string]any{"a": 1, "b": "x"},
		"value":  P{A: 1, B: "x"},
		"ptr":    &P{A: 1, B: "x"},
	} {
		var p P
		if err := DecodeJSON(in, &p); err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if p.A != 1 || p.B != "x" {
			t.Fatalf("%s: unexpected result: %+v", name, p)
		}
	}
}

func TestDecodeJSONNilLeavesDst(t *testing.T) {
	p := struct{ A int }{A: 7}
	if err := DecodeJSON(nil, &p); err != nil || p.A != 7 {
		t.Fatalf("nil src changed dst: %+v, %v", p, err)
	}
	if err := DecodeJSON("{", &p); err == nil {
		t.Fatal("expected syntax error")
	}
}
