// README: Time-ordered event queue with insertion-order tie-breaking.
package event

import "container/heap"

type entry struct {
	event Event
	seq   uint64
}

// entryHeap is a min-heap of events ordered by (Time, seq).
type entryHeap []entry

func (h entryHeap) Len() int      { return len(h) }
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h entryHeap) Less(i, j int) bool {
	if h[i].event.Time() != h[j].event.Time() {
		return h[i].event.Time() < h[j].event.Time()
	}
	return h[i].seq < h[j].seq
}

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return item
}

// Queue pops events earliest first. Events scheduled for the same tick pop
// in the order they were added.
type Queue struct {
	events entryHeap
	seq    uint64
}

func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.events)
	return q
}

func (q *Queue) Add(e Event) {
	q.seq++
	heap.Push(&q.events, entry{event: e, seq: q.seq})
}

// Remove pops the earliest event; ok is false when the queue is empty.
func (q *Queue) Remove() (Event, bool) {
	if q.events.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.events).(entry).event, true
}

func (q *Queue) IsEmpty() bool {
	return q.events.Len() == 0
}

func (q *Queue) Len() int {
	return q.events.Len()
}
