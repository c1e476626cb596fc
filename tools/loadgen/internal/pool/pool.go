package pool

import (
	"sync"
	"time"
)

// Stats summarizes pool usage over a run
type Stats struct {
	ValuesByType  map[SemanticType]int
	HitCount      int64
	MissCount     int64
	EvictionCount int64
}

// HitRate returns hits over all lookups, 0 before the first lookup
func (s Stats) HitRate() float64 {
	total := s.HitCount + s.MissCount
	if total == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(total)
}

// Config holds pool limits
type Config struct {
	// MaxValuesPerType caps each type's ring buffer
	MaxValuesPerType int
	// DefaultTTL applies when Add is called with a zero ttl; zero never expires
	DefaultTTL time.Duration
}

// Pool holds one ring buffer per semantic type. It is safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	config  Config
	buffers map[SemanticType]*RingBuffer
	hits    int64
	misses  int64
	closed  bool
	seed    int64
}

// New creates an empty pool
func New(config Config) *Pool {
	if config.MaxValuesPerType <= 0 {
		config.MaxValuesPerType = 1000
	}
	return &Pool{
		config:  config,
		buffers: make(map[SemanticType]*RingBuffer),
		seed:    time.Now().UnixNano(),
	}
}

// Add stores value under semanticType
func (p *Pool) Add(value any, semanticType SemanticType, ttl time.Duration) error {
	if ttl == 0 {
		ttl = p.config.DefaultTTL
	}
	rb, err := p.buffer(semanticType, true)
	if err != nil {
		return err
	}
	rb.Add(NewValue(value, semanticType, ttl))
	return nil
}

// GetRandom returns a random live value of semanticType
func (p *Pool) GetRandom(semanticType SemanticType) (*Value, error) {
	rb, err := p.buffer(semanticType, false)
	if err != nil {
		return nil, err
	}
	var v *Value
	if rb != nil {
		v = rb.GetRandom()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if v == nil {
		p.misses++
		return nil, ErrValueNotFound
	}
	p.hits++
	return v, nil
}

// Remove drops a value, e.g. an order that reached a terminal stage
func (p *Pool) Remove(v *Value) bool {
	rb, err := p.buffer(v.SemanticType, false)
	if err != nil || rb == nil {
		return false
	}
	return rb.Remove(v)
}

// Stats returns a snapshot of the pool counters
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		ValuesByType: make(map[SemanticType]int, len(p.buffers)),
		HitCount:     p.hits,
		MissCount:    p.misses,
	}
	for t, rb := range p.buffers {
		s.ValuesByType[t] = rb.Count()
		s.EvictionCount += rb.EvictionCount()
	}
	return s
}

// Close rejects further operations
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.buffers = nil
	return nil
}

func (p *Pool) buffer(semanticType SemanticType, create bool) (*RingBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	rb, ok := p.buffers[semanticType]
	if !ok && create {
		p.seed++
		rb = NewRingBuffer(p.config.MaxValuesPerType, p.seed)
		p.buffers[semanticType] = rb
	}
	return rb, nil
}
