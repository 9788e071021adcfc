package mem

import (
	"errors"
	"testing"
)

func TestHeapAlloc(t *testing.T) {
	buf, err := Heap{}.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if len(buf) != 16 {
		t.Errorf("len = %d, want %d", len(buf), 16)
	}
	if _, err := (Heap{}).Alloc(-1); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Alloc(-1) err = %v, want ErrOutOfMemory", err)
	}
}

func TestLimit(t *testing.T) {
	l := NewLimit(nil, 100)

	a, err := l.Alloc(60)
	if err != nil {
		t.Fatalf("Alloc(60): %v", err)
	}
	if _, err := l.Alloc(41); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("Alloc(41) err = %v, want ErrOutOfMemory", err)
	}
	if got := l.Live(); got != 60 {
		t.Errorf("Live = %d, want %d", got, 60)
	}

	l.Free(a)
	if _, err := l.Alloc(100); err != nil {
		t.Errorf("Alloc(100) after free: %v", err)
	}
}

func TestLimitDisabled(t *testing.T) {
	l := NewLimit(nil, 0)
	if _, err := l.Alloc(1 << 20); err != nil {
		t.Errorf("Alloc with no limit: %v", err)
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker(nil)

	a, _ := tr.Alloc(8)
	b, _ := tr.Alloc(24)
	if tr.Balanced() {
		t.Fatal("Balanced = true with two live allocations")
	}

	tr.Free(a)
	tr.Free(b)

	got := tr.Stats()
	want := Stats{Allocs: 2, Frees: 2, LiveBytes: 0}
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
	if !tr.Balanced() {
		t.Error("Balanced = false after freeing everything")
	}
}

func TestTrackerDoesNotCountFailedAllocs(t *testing.T) {
	tr := NewTracker(NewLimit(nil, 4))
	if _, err := tr.Alloc(8); err == nil {
		t.Fatal("expected error")
	}
	if got := tr.Stats().Allocs; got != 0 {
		t.Errorf("Allocs = %d, want 0", got)
	}
}
