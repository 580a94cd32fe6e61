// Implements the frontier queue that drives the breadth-first flood.
// Cells are enqueued when their arrival time improves

package sim

import (
	"fmt"
	"strings"
)

// frontierCell is a cell waiting to be expanded together with its known
// hop-distance from the nearest source.
type frontierCell struct {
	index int // offset in the flat cell buffer
	dist  int
}

// frontierQueue is a FIFO queue of frontier cells. With unit edge costs,
// FIFO order expands cells in non-decreasing distance order.
type frontierQueue struct {
	queue []frontierCell
	head  int
}

// Enqueue adds a cell to the back of the queue.
func (fq *frontierQueue) Enqueue(c frontierCell) {
	fq.queue = append(fq.queue, c)
}

// Len returns the number of cells still waiting.
func (fq *frontierQueue) Len() int {
	return len(fq.queue) - fq.head
}

// Dequeue removes and returns the cell at the front of the queue.
// Panics on an empty queue; callers check Len first.
func (fq *frontierQueue) Dequeue() frontierCell {
	if fq.Len() == 0 {
		panic("frontierQueue.Dequeue: empty queue")
	}
	c := fq.queue[fq.head]
	fq.head++
	if fq.head == len(fq.queue) {
		// Reuse the backing array once drained.
		fq.queue = fq.queue[:0]
		fq.head = 0
	}
	return c
}

// String renders the waiting cells as "[index@dist ...]", front first.
func (fq *frontierQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, c := range fq.queue[fq.head:] {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%d@%d", c.index, c.dist))
	}
	sb.WriteString("]")
	return sb.String()
}
