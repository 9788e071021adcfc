// Package format writes parse reports.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/lemonwrap/grammar"
)

// Report is one parser invocation. Result aliases storage owned by the
// caller and is only valid during Encode.
type Report struct {
	Source      string
	Result      []byte
	Diagnostics grammar.Diagnostics
	Err         error
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(r *Report) error
}

// New returns the encoder registered under name ("text" or "json").
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}
