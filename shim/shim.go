// Package shim adapts a grammar.Parser for callers that pass and expect
// immutable strings, such as a managed runtime calling through cgo or an
// HTTP handler.
package shim

import (
	"fmt"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
)

type Option func(*Shim)

// WithAllocator sets the allocator used for the terminated copy of each
// input.
func WithAllocator(a mem.Allocator) Option {
	return func(s *Shim) {
		s.alloc = a
	}
}

// Shim is safe for concurrent use if its parser is.
type Shim struct {
	parser grammar.Parser
	alloc  mem.Allocator
}

func New(p grammar.Parser, opts ...Option) *Shim {
	s := &Shim{parser: p, alloc: mem.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse hands input to the parser and returns a copy of its result.
// Storage for the terminated input and the parser's result is released
// before Parse returns, on every path.
func (s *Shim) Parse(input string) (string, error) {
	out, _, err := s.ParseDiagnostics(input)
	return out, err
}

// ParseDiagnostics is Parse, also reporting where the parser stopped.
func (s *Shim) ParseDiagnostics(input string) (string, grammar.Diagnostics, error) {
	var diag grammar.Diagnostics

	buf, err := s.alloc.Alloc(len(input) + 1)
	if err != nil {
		return "", diag, fmt.Errorf("copy input: %w", err)
	}
	defer s.alloc.Free(buf)
	copy(buf, input)
	buf[len(input)] = 0

	res, err := s.parser.Parse(buf, &diag)
	if err != nil {
		return "", diag, err
	}
	if res == nil {
		return "", diag, grammar.ErrNilResult
	}
	defer res.Release()

	return string(res.Bytes()), diag, nil
}
