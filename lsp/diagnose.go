package lsp

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/lemonwrap/ast"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/shim"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const source = "lemonwrap"

// Diagnose parses text and converts a failure into diagnostics. A result
// that is a JSON error object counts as a failure too, as does a tree with
// a node type the interpreter does not know.
func Diagnose(s *shim.Shim, text string) []protocol.Diagnostic {
	out, diag, err := s.ParseDiagnostics(text)
	if err == nil && strings.HasPrefix(strings.TrimSpace(out), "{") {
		err = checkTree([]byte(out))
	}
	if err == nil {
		return []protocol.Diagnostic{}
	}

	var perr *grammar.ParseError
	var kerr *ast.KindError
	switch {
	case errors.As(err, &perr):
		diag = perr.Diagnostics
	case errors.As(err, &kerr):
		diag = grammar.Diagnostics{Line: kerr.Line}
	}
	return []protocol.Diagnostic{newDiagnostic(text, diag, err.Error())}
}

// checkTree reports engine errors and unknown node types in a JSON tree.
// Output that is not a tree is not an error.
func checkTree(out []byte) error {
	root, err := ast.Decode(out)
	var perr *grammar.ParseError
	switch {
	case errors.As(err, &perr):
		return err
	case err != nil:
		return nil
	}
	return ast.Validate(root)
}

func newDiagnostic(text string, diag grammar.Diagnostics, message string) protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	line := diag.Line - 1
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}
	content := strings.TrimRight(lines[line], "\r")

	start, end := 0, utf16Len(content)
	if diag.Token != "" {
		if i := strings.Index(content, diag.Token); i >= 0 {
			start = utf16Len(content[:i])
			end = start + utf16Len(diag.Token)
		}
	}

	severity := protocol.DiagnosticSeverityError
	src := source
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
		},
		Severity: &severity,
		Source:   &src,
		Message:  message,
	}
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
