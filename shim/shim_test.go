package shim

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
)

func TestParseEcho(t *testing.T) {
	tr := mem.NewTracker(nil)
	s := New(grammar.Echo{Alloc: tr}, WithAllocator(tr))

	out, err := s.Parse("hello")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out != "hello" {
		t.Errorf("Parse = %q, want %q", out, "hello")
	}

	// input copy and result
	st := tr.Stats()
	if st.Allocs != 2 || st.Frees != 2 || st.LiveBytes != 0 {
		t.Errorf("stats = %+v, want 2 allocs, 2 frees, 0 live bytes", st)
	}
}

func TestParseRepeated(t *testing.T) {
	tr := mem.NewTracker(nil)
	s := New(grammar.Echo{Alloc: tr}, WithAllocator(tr))

	inputs := []string{"a", "", "write 1;", "longer input\nwith lines", "b"}
	for round := 0; round < 3; round++ {
		for _, in := range inputs {
			out, err := s.Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", in, err)
			}
			if out != in {
				t.Errorf("Parse(%q) = %q", in, out)
			}
		}
	}
	if !tr.Balanced() {
		t.Errorf("allocations not balanced: %+v", tr.Stats())
	}
}

func TestParseConcurrent(t *testing.T) {
	tr := mem.NewTracker(nil)
	s := New(grammar.Echo{Alloc: tr}, WithAllocator(tr))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := fmt.Sprintf("input %d", i)
			out, err := s.Parse(in)
			if err != nil {
				errs <- err
				return
			}
			if out != in {
				errs <- fmt.Errorf("got %q, want %q", out, in)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if !tr.Balanced() {
		t.Errorf("allocations not balanced: %+v", tr.Stats())
	}
}

type nilParser struct{}

func (nilParser) Parse([]byte, *grammar.Diagnostics) (*grammar.Result, error) {
	return nil, nil
}

type failParser struct{}

func (failParser) Parse(_ []byte, diag *grammar.Diagnostics) (*grammar.Result, error) {
	d := grammar.Diagnostics{Line: 4, Token: "endif"}
	*diag = d
	return nil, &grammar.ParseError{Diagnostics: d, Message: "unexpected token"}
}

func TestParseNilResult(t *testing.T) {
	tr := mem.NewTracker(nil)
	_, err := New(nilParser{}, WithAllocator(tr)).Parse("x")
	if !errors.Is(err, grammar.ErrNilResult) {
		t.Errorf("err = %v, want %v", err, grammar.ErrNilResult)
	}
	if !tr.Balanced() {
		t.Errorf("allocations not balanced: %+v", tr.Stats())
	}
}

func TestParseError(t *testing.T) {
	tr := mem.NewTracker(nil)
	_, diag, err := New(failParser{}, WithAllocator(tr)).ParseDiagnostics("if x then")

	var perr *grammar.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *grammar.ParseError", err)
	}
	if perr.Line != 4 || diag.Line != 4 {
		t.Errorf("line = %d (diagnostics %d), want 4", perr.Line, diag.Line)
	}
	if !tr.Balanced() {
		t.Errorf("allocations not balanced: %+v", tr.Stats())
	}
}

func TestParseOutOfMemory(t *testing.T) {
	tr := mem.NewTracker(mem.NewLimit(nil, 8))
	s := New(grammar.Echo{Alloc: tr}, WithAllocator(tr))

	if _, err := s.Parse("far more than eight bytes"); !errors.Is(err, mem.ErrOutOfMemory) {
		t.Errorf("long input: err = %v, want ErrOutOfMemory", err)
	}

	// input copy fits, result does not
	if _, err := s.Parse("abcd"); !errors.Is(err, mem.ErrOutOfMemory) {
		t.Errorf("short input: err = %v, want ErrOutOfMemory", err)
	}
	if !tr.Balanced() {
		t.Errorf("allocations not balanced: %+v", tr.Stats())
	}
}
