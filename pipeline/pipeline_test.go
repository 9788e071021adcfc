package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/lemonwrap/buffer"
	"github.com/dhamidi/lemonwrap/format"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
)

func TestRunEcho(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"abc", "abc", "RESULT:\nabc\n"},
		{"empty", "", "RESULT:\n\n"},
		{"grown", strings.Repeat("z", 3000), "RESULT:\n" + strings.Repeat("z", 3000) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mem.NewTracker(nil)
			buf, err := buffer.Accumulate(strings.NewReader(tt.input), tr)
			if err != nil {
				t.Fatalf("Accumulate: %v", err)
			}

			var out bytes.Buffer
			if err := Run(format.NewTextEncoder(&out), grammar.Echo{Alloc: tr}, buf); err != nil {
				t.Fatalf("Run: %v", err)
			}
			buf.Release()

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
			if !tr.Balanced() {
				t.Errorf("stats = %+v, want balanced", tr.Stats())
			}
		})
	}
}

type countingParser struct {
	calls int
	grammar.Echo
}

func (c *countingParser) Parse(input []byte, diag *grammar.Diagnostics) (*grammar.Result, error) {
	c.calls++
	return c.Echo.Parse(input, diag)
}

func TestRunCallsParserOnce(t *testing.T) {
	p := &countingParser{}
	var out bytes.Buffer
	if err := Process(format.NewTextEncoder(&out), p, nil, "stdin", strings.NewReader("x")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("parser called %d times, want 1", p.calls)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRunReleasesOnEncodeError(t *testing.T) {
	tr := mem.NewTracker(nil)
	err := Process(format.NewTextEncoder(failingWriter{}), grammar.Echo{Alloc: tr}, tr, "", strings.NewReader("abc"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !tr.Balanced() {
		t.Errorf("stats = %+v, want balanced", tr.Stats())
	}
}

func TestProcessOutOfMemory(t *testing.T) {
	alloc := mem.NewLimit(nil, 2000)
	var out bytes.Buffer
	err := Process(format.NewTextEncoder(&out), grammar.Echo{Alloc: alloc}, alloc, "", strings.NewReader(strings.Repeat("a", 1500)))
	if !errors.Is(err, mem.ErrOutOfMemory) {
		t.Fatalf("err = %v, want ErrOutOfMemory", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
	if alloc.Live() != 0 {
		t.Errorf("Live = %d, want 0", alloc.Live())
	}
}

func TestParse(t *testing.T) {
	tr := mem.NewTracker(nil)
	res, diag, err := Parse(grammar.Echo{Alloc: tr}, tr, strings.NewReader("a\nb"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.String() != "a\nb" || diag.Line != 2 {
		t.Errorf("result = %q line %d", res.String(), diag.Line)
	}
	res.Release()
	if !tr.Balanced() {
		t.Errorf("stats = %+v, want balanced", tr.Stats())
	}
}
