package grammar

import (
	"bytes"
	_ "embed"
	"io"

	"golang.org/x/exp/ebnf"
)

// ReferenceStart is the start production of the reference grammar.
const ReferenceStart = "Code"

//go:embed lang.ebnf
var reference []byte

// Reference returns the EBNF description of the language the engine
// accepts, in golang.org/x/exp/ebnf notation.
func Reference() []byte {
	return bytes.Clone(reference)
}

// CheckGrammar parses an EBNF grammar and, if start is not empty, verifies
// that every production is defined and reachable from start.
func CheckGrammar(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return g, err
	}
	return g, nil
}
