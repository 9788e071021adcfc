// Package grammar defines the contract between lemonwrap and the external
// grammar engine that turns program text into its textual parse result.
//
// The engine itself lives outside this module. Implementations of Parser
// adapt it: an in-process stub (Echo), a subprocess (Command) and, when
// built with the lemon tag, the C entry point parse_to_string.
package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/dhamidi/lemonwrap/mem"
)

// ErrNilResult is returned when the engine produced no result at all.
var ErrNilResult = errors.New("parser returned no result")

// Parser turns a NUL-terminated program text into a parse result.
//
// The caller owns input for the duration of the call and the parser must
// not retain or modify it. The caller owns the returned Result and must
// Release it. diag may be nil; when it is not, the parser records where it
// stopped.
type Parser interface {
	Parse(input []byte, diag *Diagnostics) (*Result, error)
}

// Diagnostics describes the engine's position when it stopped.
type Diagnostics struct {
	Line      int    `json:"line,omitempty"`
	Token     string `json:"token,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
}

func (d Diagnostics) String() string {
	switch {
	case d.Token != "" && d.TokenType != "":
		return fmt.Sprintf("line %d near %s %q", d.Line, d.TokenType, d.Token)
	case d.Token != "":
		return fmt.Sprintf("line %d near %q", d.Line, d.Token)
	default:
		return fmt.Sprintf("line %d", d.Line)
	}
}

// ParseError is a failure reported by the engine.
type ParseError struct {
	Diagnostics
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s: %s", e.Diagnostics, e.Message)
	}
	return "parse error: " + e.Message
}

// Result is a parse result owned by the caller. Bytes is valid until
// Release, which frees the underlying storage exactly once.
type Result struct {
	data    []byte
	release func()
	once    sync.Once
}

// NewResult copies text into storage obtained from alloc, followed by a
// terminator so that the storage can be handed to C unchanged.
func NewResult(alloc mem.Allocator, text []byte) (*Result, error) {
	if alloc == nil {
		alloc = mem.Default
	}
	buf, err := alloc.Alloc(len(text) + 1)
	if err != nil {
		return nil, fmt.Errorf("allocate result: %w", err)
	}
	copy(buf, text)
	buf[len(text)] = 0
	return &Result{
		data:    buf[:len(text)],
		release: func() { alloc.Free(buf) },
	}, nil
}

// WrapResult adopts data, which stays valid until release is called.
func WrapResult(data []byte, release func()) *Result {
	return &Result{data: data, release: release}
}

func (r *Result) Bytes() []byte { return r.data }

func (r *Result) String() string { return string(r.data) }

func (r *Result) Len() int { return len(r.data) }

func (r *Result) Release() {
	r.once.Do(func() {
		if r.release != nil {
			r.release()
		}
		r.data = nil
	})
}

// CString returns input up to, not including, its first NUL byte.
func CString(input []byte) []byte {
	if i := bytes.IndexByte(input, 0); i >= 0 {
		return input[:i]
	}
	return input
}
