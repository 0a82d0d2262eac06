package lift

import (
	"reflect"
	"testing"
)

func TestRequestQueue_Capacity(t *testing.T) {
	q := NewRequestQueue(3)

	if !q.IsEmpty() || q.IsFull() {
		t.Fatalf("Expected new queue to be empty, got len %d full %v", q.Len(), q.IsFull())
	}

	for _, f := range []Floor{Floor1, Floor2, Floor3} {
		if res := q.Enqueue(f); res != Accepted {
			t.Errorf("Enqueue(%v): expected Accepted, got %v", f, res)
		}
	}
	if !q.IsFull() || q.IsEmpty() {
		t.Errorf("Expected queue to be full and not empty, got len %d", q.Len())
	}

	// 4th distinct floor must fail, not overwrite
	if res := q.Enqueue(Floor0); res != Full {
		t.Errorf("Expected Full, got %v", res)
	}
	if got := q.Items(); !reflect.DeepEqual(got, []Floor{Floor1, Floor2, Floor3}) {
		t.Errorf("Queue contents changed after Full: %v", got)
	}
}

func TestRequestQueue_Duplicate(t *testing.T) {
	q := NewRequestQueue(3)

	if res := q.Enqueue(Floor2); res != Accepted {
		t.Fatalf("Expected Accepted, got %v", res)
	}
	res := q.Enqueue(Floor2)
	if res != Duplicate {
		t.Errorf("Expected Duplicate, got %v", res)
	}
	if !res.Lit() {
		t.Error("Duplicate must re-assert the indicator")
	}
	if q.Len() != 1 {
		t.Errorf("Expected len 1 after duplicate, got %d", q.Len())
	}

	// A duplicate of a queued floor is reported even when the queue is full.
	q.Enqueue(Floor0)
	q.Enqueue(Floor3)
	if res := q.Enqueue(Floor0); res != Duplicate {
		t.Errorf("Expected Duplicate on full queue, got %v", res)
	}
}

func TestRequestQueue_FIFO(t *testing.T) {
	q := NewRequestQueue(3)
	q.Enqueue(Floor3)
	q.Enqueue(Floor1)
	q.Enqueue(Floor3) // duplicate must not move Floor3 to the back

	want := []Floor{Floor3, Floor1}
	for _, w := range want {
		got, ok := q.Dequeue()
		if !ok || got != w {
			t.Errorf("Expected %v, got %v (ok=%v)", w, got, ok)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Expected empty queue")
	}
}

func TestRequestQueue_WrapAround(t *testing.T) {
	q := NewRequestQueue(3)

	// Walk the indices around the ring several times; read == write must
	// always be disambiguated by the full flag.
	var served []Floor
	next := 0
	for round := 0; round < 5; round++ {
		for q.Enqueue(Floors[next%NumFloors]) == Accepted {
			next++
		}
		if !q.IsFull() {
			t.Fatalf("Round %d: expected full queue, got len %d", round, q.Len())
		}
		for i := 0; i < 2; i++ {
			f, ok := q.Dequeue()
			if !ok {
				t.Fatalf("Round %d: unexpected empty queue", round)
			}
			served = append(served, f)
		}
		if q.Len() != 1 || q.IsFull() || q.IsEmpty() {
			t.Errorf("Round %d: expected len 1, got %d (full=%v empty=%v)", round, q.Len(), q.IsFull(), q.IsEmpty())
		}
	}

	for q.Len() > 0 {
		f, _ := q.Dequeue()
		served = append(served, f)
	}
	if !q.IsEmpty() || q.IsFull() {
		t.Errorf("Expected empty queue, got len %d full %v", q.Len(), q.IsFull())
	}
	for i, f := range served {
		if f != Floors[i%NumFloors] {
			t.Fatalf("Order broken at %d: got %v, want %v (served %v)", i, f, Floors[i%NumFloors], served)
		}
	}
}

func TestRequestQueue_Invalid(t *testing.T) {
	q := NewRequestQueue(3)
	for _, f := range []Floor{None, Error, Test, Floor(7)} {
		if res := q.Enqueue(f); res != Invalid {
			t.Errorf("Enqueue(%v): expected Invalid, got %v", f, res)
		}
	}
	if !q.IsEmpty() {
		t.Errorf("Expected empty queue, got %v", q.Items())
	}
}
