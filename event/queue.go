package event

import (
	"sync"

	"github.com/lixenwraith/scenekit/parameter"
)

// SceneEvent is a queued scene mutation
// Payload holds the value type registered for Type
type SceneEvent struct {
	Type    EventType
	Payload any
	Seq     uint64 // assigned by Push, strictly increasing
}

// Queue is an unbounded FIFO of scene events
// Multiple producers are safe; the scheduler is the single consumer
type Queue struct {
	mu        sync.Mutex
	items     []SceneEvent
	head      int
	nextSeq   uint64
	highWater int
}

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{
		items: make([]SceneEvent, 0, parameter.QueueInitialCapacity),
	}
}

// Push appends an event and returns its sequence number
func (q *Queue) Push(ev SceneEvent) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSeq++
	ev.Seq = q.nextSeq
	q.items = append(q.items, ev)
	if n := len(q.items) - q.head; n > q.highWater {
		q.highWater = n
	}
	return ev.Seq
}

// Peek returns the head event without removing it
func (q *Queue) Peek() (SceneEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return SceneEvent{}, false
	}
	return q.items[q.head], true
}

// Pop removes and returns the head event
func (q *Queue) Pop() (SceneEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return SceneEvent{}, false
	}
	ev := q.items[q.head]
	q.items[q.head] = SceneEvent{}
	q.head++

	// Compact once the consumed prefix dominates the backing array
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > parameter.QueueInitialCapacity && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return ev, true
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// HighWater returns the deepest the queue has been
func (q *Queue) HighWater() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.highWater
}

// LastSeq returns the sequence number of the most recently pushed event
func (q *Queue) LastSeq() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextSeq
}

// Clear drops all pending events and returns how many were dropped
// Sequence numbering continues
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items) - q.head
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
	return n
}
