// Package pipeline connects the input buffer, the parser and an encoder.
package pipeline

import (
	"io"

	"github.com/dhamidi/lemonwrap/buffer"
	"github.com/dhamidi/lemonwrap/format"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lemonwrap.pipeline")

// Run parses the finalized buffer once and encodes the result. The result
// is released before Run returns; buf stays owned by the caller.
func Run(enc format.Encoder, p grammar.Parser, buf *buffer.Buffer) error {
	return RunSource(enc, p, "", buf)
}

// RunSource is Run with the name of the input recorded in the report.
func RunSource(enc format.Encoder, p grammar.Parser, source string, buf *buffer.Buffer) error {
	var diag grammar.Diagnostics
	res, err := p.Parse(buf.Bytes(), &diag)
	if err != nil {
		return err
	}
	if res == nil {
		return grammar.ErrNilResult
	}
	defer res.Release()

	log.Debugf("parsed %q: %d bytes in, %d bytes out", source, buf.Len()-1, res.Len())
	return enc.Encode(&format.Report{
		Source:      source,
		Result:      res.Bytes(),
		Diagnostics: diag,
	})
}

// Process accumulates r and runs the parser on it. Nothing stays allocated
// when it returns.
func Process(enc format.Encoder, p grammar.Parser, alloc mem.Allocator, source string, r io.Reader) error {
	buf, err := buffer.Accumulate(r, alloc)
	if err != nil {
		return err
	}
	defer buf.Release()
	return RunSource(enc, p, source, buf)
}

// Parse accumulates r and returns the parser's result, which the caller
// must release.
func Parse(p grammar.Parser, alloc mem.Allocator, r io.Reader) (*grammar.Result, grammar.Diagnostics, error) {
	var diag grammar.Diagnostics
	buf, err := buffer.Accumulate(r, alloc)
	if err != nil {
		return nil, diag, err
	}
	defer buf.Release()

	res, err := p.Parse(buf.Bytes(), &diag)
	if err != nil {
		return nil, diag, err
	}
	if res == nil {
		return nil, diag, grammar.ErrNilResult
	}
	return res, diag, nil
}
