package shmring

import (
	"runtime"
	"testing"
	"time"
)

func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	r := New(64)

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, 0, N)

	p := src
	for len(dst) < N {
		// Producer accepts at most 7 bytes per step, consumer drains 17.
		if len(p) > 0 {
			step := min(len(p), 7)
			p = p[r.WriteFrom(p[:step]):]
		}
		var tmp [17]byte
		n := r.ReadInto(tmp[:])
		dst = append(dst, tmp[:n]...)
	}
	for i := 0; i < N; i++ {
		if dst[i] != src[i] {
			t.Fatalf("mismatch at %d: got=%d want=%d", i, dst[i], src[i])
		}
	}
}

func TestReadableWritableEdges(t *testing.T) {
	r := New(8)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	if n := r.WriteFrom([]byte{1, 2, 3}); n != 3 {
		t.Fatalf("write 3 -> %d", n)
	}
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	r.WriteFrom([]byte{4})
	select {
	case <-r.Readable():
		t.Fatal("coalesced: no second token while data is pending")
	default:
	}

	// Fill to capacity, then one read must raise Writable.
	if n := r.WriteFrom(make([]byte, 16)); n != 4 {
		t.Fatalf("fill -> %d, want 4", n)
	}
	if r.Space() != 0 || r.Available() != 8 {
		t.Fatalf("space=%d avail=%d", r.Space(), r.Available())
	}
	r.ReadInto(make([]byte, 1))
	select {
	case <-r.Writable():
	default:
		t.Fatal("expected Writable after draining a full ring")
	}
}

func TestNotifyRaisesReadable(t *testing.T) {
	r := New(4)
	r.Notify()
	select {
	case <-r.Readable():
	default:
		t.Fatal("Notify did not signal")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non power of two")
		}
	}()
	New(12)
}

// TestConcurrentEdgesNeverStall runs a producer and a consumer that each
// block on the opposite edge only when the ring looks empty or full. A
// missed edge shows up as a stall.
func TestConcurrentEdgesNeverStall(t *testing.T) {
	const N = 200_000
	r := New(64)
	errc := make(chan string, 1)

	go func() {
		var b [5]byte
		for sent := 0; sent < N; {
			k := min(len(b), N-sent)
			for i := 0; i < k; i++ {
				b[i] = byte(sent + i)
			}
			w := r.WriteFrom(b[:k])
			sent += w
			if w == 0 && r.Space() == 0 {
				select {
				case <-r.Writable():
				case <-time.After(2 * time.Second):
					errc <- "producer stalled on a full ring"
					return
				}
			}
			if sent%97 == 0 {
				runtime.Gosched()
			}
		}
	}()

	var one [1]byte
	for got := 0; got < N; {
		if r.ReadInto(one[:]) == 1 {
			if one[0] != byte(got) {
				t.Fatalf("byte %d = %d", got, one[0])
			}
			got++
			continue
		}
		if r.Available() != 0 {
			continue
		}
		select {
		case <-r.Readable():
		case msg := <-errc:
			t.Fatal(msg)
		case <-time.After(2 * time.Second):
			t.Fatalf("consumer stalled after %d/%d bytes, available=%d", got, N, r.Available())
		}
	}
}
