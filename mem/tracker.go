package mem

import "sync"

// Stats is a snapshot of a Tracker's counters.
type Stats struct {
	Allocs    int
	Frees     int
	LiveBytes int
}

// Outstanding is the number of allocations that have not been freed.
func (s Stats) Outstanding() int {
	return s.Allocs - s.Frees
}

// Tracker counts allocations and releases made through it.
type Tracker struct {
	Allocator Allocator

	mu    sync.Mutex
	stats Stats
}

func NewTracker(a Allocator) *Tracker {
	if a == nil {
		a = Default
	}
	return &Tracker{Allocator: a}
}

func (t *Tracker) Alloc(size int) ([]byte, error) {
	buf, err := t.Allocator.Alloc(size)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.stats.Allocs++
	t.stats.LiveBytes += len(buf)
	t.mu.Unlock()
	return buf, nil
}

func (t *Tracker) Free(buf []byte) {
	t.mu.Lock()
	t.stats.Frees++
	t.stats.LiveBytes -= len(buf)
	t.mu.Unlock()
	t.Allocator.Free(buf)
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Balanced reports whether every allocation has been freed.
func (t *Tracker) Balanced() bool {
	return t.Stats().Outstanding() == 0
}
