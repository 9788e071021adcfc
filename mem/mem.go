// Package mem defines the allocation contract shared by the input buffer,
// the parser results and the binding shim.
//
// Every byte slice obtained from an Allocator is returned to it exactly once
// with Free. The Go runtime does not need the Free call, but allocators that
// account for memory (Limit, Tracker) do, and the pairing is what lets tests
// prove that nothing crossing the parser boundary is leaked.
package mem

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfMemory is returned when an allocation cannot be satisfied.
var ErrOutOfMemory = errors.New("out of memory")

// Allocator hands out byte slices of an exact length.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// Heap delegates to the Go runtime. Free is a no-op.
type Heap struct{}

func (Heap) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("alloc %d bytes: %w", size, ErrOutOfMemory)
	}
	return make([]byte, size), nil
}

func (Heap) Free([]byte) {}

// Default is the allocator used when none is configured.
var Default Allocator = Heap{}

// Limit refuses allocations that would push the number of live bytes above Max.
type Limit struct {
	Allocator Allocator
	Max       int

	mu   sync.Mutex
	live int
}

// NewLimit wraps a with a ceiling of max live bytes. A max of zero or less
// disables the ceiling.
func NewLimit(a Allocator, max int) *Limit {
	if a == nil {
		a = Default
	}
	return &Limit{Allocator: a, Max: max}
}

func (l *Limit) Alloc(size int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Max > 0 && l.live+size > l.Max {
		return nil, fmt.Errorf("alloc %d bytes (%d live, limit %d): %w", size, l.live, l.Max, ErrOutOfMemory)
	}
	buf, err := l.Allocator.Alloc(size)
	if err != nil {
		return nil, err
	}
	l.live += len(buf)
	return buf, nil
}

func (l *Limit) Free(buf []byte) {
	l.mu.Lock()
	l.live -= len(buf)
	l.mu.Unlock()
	l.Allocator.Free(buf)
}

// Live reports the number of bytes currently allocated and not freed.
func (l *Limit) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live
}
