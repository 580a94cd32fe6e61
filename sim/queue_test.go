package sim

import (
	"testing"
)

func TestFrontierQueue_FIFOOrder(t *testing.T) {
	// GIVEN a queue with cells [A, B, C]
	var fq frontierQueue
	fq.Enqueue(frontierCell{index: 1, dist: 0})
	fq.Enqueue(frontierCell{index: 2, dist: 1})
	fq.Enqueue(frontierCell{index: 3, dist: 1})

	// WHEN all cells are dequeued
	var got []int
	for fq.Len() > 0 {
		got = append(got, fq.Dequeue().index)
	}

	// THEN they come out in insertion order
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dequeue order: got %v, want %v", got, want)
		}
	}
}

func TestFrontierQueue_String_ListsWaitingCellsFrontFirst(t *testing.T) {
	var fq frontierQueue
	if fq.String() != "[]" {
		t.Errorf("empty String() = %q, want []", fq.String())
	}

	fq.Enqueue(frontierCell{index: 7, dist: 2})
	fq.Enqueue(frontierCell{index: 8, dist: 3})
	fq.Dequeue()
	fq.Enqueue(frontierCell{index: 4, dist: 3})

	if got := fq.String(); got != "[8@3 4@3]" {
		t.Errorf("String() = %q, want [8@3 4@3]", got)
	}
}

func TestFrontierQueue_ReusesStorageAfterDrain(t *testing.T) {
	// GIVEN a queue that was filled and drained
	var fq frontierQueue
	fq.Enqueue(frontierCell{index: 1})
	fq.Dequeue()

	// WHEN more cells are enqueued
	fq.Enqueue(frontierCell{index: 2})
	fq.Enqueue(frontierCell{index: 3})

	// THEN the head restarts at the front and order is kept
	if fq.head != 0 {
		t.Errorf("head = %d after drain, want 0", fq.head)
	}
	if c := fq.Dequeue(); c.index != 2 {
		t.Errorf("Dequeue after reuse: got %d, want 2", c.index)
	}
	if fq.String() != "[3@0]" {
		t.Errorf("String() = %q, want [3@0]", fq.String())
	}
}

func TestFrontierQueue_Dequeue_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Dequeue on empty queue did not panic")
		}
	}()
	var fq frontierQueue
	fq.Dequeue()
}
