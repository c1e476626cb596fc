package pool

import (
	"sync"
	"testing"
	"time"
)

func TestRingBufferOverwritesOldest(t *testing.T) {
	rb := NewRingBuffer(3, 1)
	values := make([]*Value, 4)
	for i := range values {
		values[i] = NewValue(i, SemanticTypeOrderID, 0)
	}

	for _, v := range values[:3] {
		if evicted := rb.Add(v); evicted != 0 {
			t.Fatalf("Evicted = %d before the buffer was full", evicted)
		}
	}
	if evicted := rb.Add(values[3]); evicted != 1 {
		t.Fatalf("Evicted = %d, want 1", evicted)
	}
	if rb.Count() != 3 {
		t.Errorf("Count = %d, want 3", rb.Count())
	}
	if rb.EvictionCount() != 1 {
		t.Errorf("EvictionCount = %d, want 1", rb.EvictionCount())
	}
	if rb.Remove(values[0]) {
		t.Error("oldest value should have been overwritten")
	}
}

func TestRingBufferRemoveKeepsRemainingValues(t *testing.T) {
	rb := NewRingBuffer(4, 1)
	a := NewValue("a", SemanticTypeOrderID, 0)
	b := NewValue("b", SemanticTypeOrderID, 0)
	c := NewValue("c", SemanticTypeOrderID, 0)
	rb.Add(a)
	rb.Add(b)
	rb.Add(c)

	if !rb.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if rb.Count() != 2 {
		t.Fatalf("Count = %d, want 2", rb.Count())
	}

	seen := map[any]bool{}
	for i := 0; i < 50; i++ {
		seen[rb.GetRandom().Value] = true
	}
	if seen["a"] || !seen["b"] || !seen["c"] {
		t.Errorf("GetRandom returned %v, want only b and c", seen)
	}
}

func TestRingBufferDropsExpired(t *testing.T) {
	rb := NewRingBuffer(2, 1)
	rb.Add(NewValue("stale", SemanticTypePeriodID, time.Nanosecond))
	time.Sleep(time.Millisecond)

	if v := rb.GetRandom(); v != nil {
		t.Errorf("GetRandom = %v, want nil", v.Value)
	}
	if rb.Count() != 0 {
		t.Errorf("Count = %d, want 0", rb.Count())
	}
}

func TestRingBufferConcurrentAccess(t *testing.T) {
	rb := NewRingBuffer(64, 1)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rb.Add(NewValue(w*1000+i, SemanticTypeOrderID, 0))
				if v := rb.GetRandom(); v != nil && i%10 == 0 {
					rb.Remove(v)
				}
			}
		}(w)
	}
	wg.Wait()

	if rb.Count() > 64 {
		t.Errorf("Count = %d exceeds capacity", rb.Count())
	}
}
