package undo

import (
	"bytes"
	"testing"
)

func TestRingBufferFill(t *testing.T) {
	r := NewRingBuffer(100)
	for i := range 10 {
		if !r.Push(bytes.Repeat([]byte{byte(i)}, 10)) {
			t.Fatalf("Push #%d failed with Remain = %d", i, r.Remain())
		}
	}
	if got := r.Remain(); got != 0 {
		t.Errorf("Remain() = %d, want 0", got)
	}
	if r.Push([]byte{1}) {
		t.Error("Push into a full arena succeeded")
	}

	for i := 9; i >= 0; i-- {
		b, ok := r.Pop()
		if !ok {
			t.Fatalf("Pop #%d failed", i)
		}
		if len(b) != 10 || b[0] != byte(i) {
			t.Errorf("Pop #%d = %v, want ten bytes of %d", i, b, i)
		}
	}
	if got := r.Remain(); got != r.Cap() {
		t.Errorf("Remain() after popping all = %d, want %d", got, r.Cap())
	}
}

func TestRingBufferRejects(t *testing.T) {
	r := NewRingBuffer(64)
	if _, ok := r.Retain(65); ok {
		t.Error("Retain(65) on a 64-byte arena succeeded")
	}
	if _, ok := r.Retain(0); ok {
		t.Error("Retain(0) succeeded")
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
	if _, ok := r.Pop(); ok {
		t.Error("Pop on an empty arena succeeded")
	}
	if _, ok := r.Shift(); ok {
		t.Error("Shift on an empty arena succeeded")
	}
}

func TestRingBufferWrap(t *testing.T) {
	r := NewRingBuffer(100)
	a, _ := r.Retain(40)
	a[0] = 'a'
	b, _ := r.Retain(40)
	b[0] = 'b'

	got, _ := r.Shift()
	if got[0] != 'a' {
		t.Errorf("Shift() returned %q, want the oldest span", got[0])
	}
	if rem := r.Remain(); rem != 40 {
		t.Errorf("Remain() = %d, want 40", rem)
	}

	c, ok := r.Retain(30)
	if !ok {
		t.Fatal("Retain(30) after wrap failed")
	}
	c[0] = 'c'
	if &c[0] != &r.buf[0] {
		t.Error("wrapped span does not start at offset 0")
	}
	if b[0] != 'b' {
		t.Error("wrapped span overlaps a live span")
	}
	if rem := r.Remain(); rem != 10 {
		t.Errorf("Remain() after wrap = %d, want 10", rem)
	}
	if _, ok := r.Retain(11); ok {
		t.Error("Retain(11) overlapping the oldest span succeeded")
	}
}

func TestRingBufferManySmall(t *testing.T) {
	// Repeated push/shift keeps working across many wraps and deque growth.
	r := NewRingBuffer(1000)
	for i := range 500 {
		for r.Remain() < 70 {
			r.Shift()
		}
		if _, ok := r.Retain(70); !ok {
			t.Fatalf("Retain #%d failed with Remain = %d", i, r.Remain())
		}
	}
	if r.Count() == 0 || r.Count() > 14 {
		t.Errorf("Count() = %d, want 1..14", r.Count())
	}
}

func TestRingBufferReset(t *testing.T) {
	r := NewRingBuffer(16)
	r.Push(make([]byte, 16))
	r.Reset()
	if r.Count() != 0 || r.Remain() != 16 {
		t.Errorf("after Reset: Count = %d, Remain = %d, want 0, 16", r.Count(), r.Remain())
	}
}
