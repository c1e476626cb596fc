package pool

import (
	"math/rand"
	"sync"
)

// RingBuffer is a fixed-size FIFO of values. Adding to a full buffer
// overwrites the oldest entry.
type RingBuffer struct {
	mu      sync.Mutex
	items   []*Value
	head    int
	count   int
	evicted int64
	rng     *rand.Rand
}

// NewRingBuffer creates a buffer; non-positive capacities default to 1000
func NewRingBuffer(capacity int, seed int64) *RingBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingBuffer{
		items: make([]*Value, capacity),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Add stores v and returns how many values were evicted to make room
func (rb *RingBuffer) Add(v *Value) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	evicted := 0
	if rb.count == len(rb.items) {
		evicted = 1
		rb.evicted++
	} else {
		rb.count++
	}
	rb.items[rb.head] = v
	rb.head = (rb.head + 1) % len(rb.items)
	return evicted
}

// GetRandom returns a random live value, or nil when none is left.
// Expired values found along the way are dropped.
func (rb *RingBuffer) GetRandom() *Value {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count > 0 {
		idx := rb.index(rb.rng.Intn(rb.count))
		v := rb.items[idx]
		if !v.IsExpired() {
			v.Touch()
			return v
		}
		rb.removeAt(idx)
	}
	return nil
}

// Remove drops v from the buffer and reports whether it was present
func (rb *RingBuffer) Remove(v *Value) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := 0; i < rb.count; i++ {
		idx := rb.index(i)
		if rb.items[idx] == v {
			rb.removeAt(idx)
			return true
		}
	}
	return false
}

// Count returns the number of stored values, expired ones included
func (rb *RingBuffer) Count() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// EvictionCount returns how many values were overwritten
func (rb *RingBuffer) EvictionCount() int64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.evicted
}

// index maps the i-th oldest entry to its slot
func (rb *RingBuffer) index(i int) int {
	start := (rb.head - rb.count + len(rb.items)) % len(rb.items)
	return (start + i) % len(rb.items)
}

// removeAt moves the newest entry into idx so the live range stays contiguous
func (rb *RingBuffer) removeAt(idx int) {
	last := (rb.head - 1 + len(rb.items)) % len(rb.items)
	rb.items[idx] = rb.items[last]
	rb.items[last] = nil
	rb.head = last
	rb.count--
}
