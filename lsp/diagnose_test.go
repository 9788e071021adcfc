package lsp

import (
	"strings"
	"testing"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/shim"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type failParser struct {
	diag grammar.Diagnostics
}

func (p failParser) Parse(_ []byte, diag *grammar.Diagnostics) (*grammar.Result, error) {
	*diag = p.diag
	return nil, &grammar.ParseError{Diagnostics: p.diag, Message: "unexpected token"}
}

func TestDiagnoseClean(t *testing.T) {
	diags := Diagnose(shim.New(grammar.Echo{}), "write 1;")
	if diags == nil || len(diags) != 0 {
		t.Errorf("diagnostics = %#v, want empty non-nil slice", diags)
	}
}

func TestDiagnoseParseError(t *testing.T) {
	text := "write 1;\nif x thn write 2; endif;\n"
	s := shim.New(failParser{diag: grammar.Diagnostics{Line: 2, Token: "thn"}})

	diags := Diagnose(s, text)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 5},
		End:   protocol.Position{Line: 1, Character: 8},
	}
	if d.Range != want {
		t.Errorf("Range = %+v, want %+v", d.Range, want)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v, want error", d.Severity)
	}
}

func TestDiagnoseLineOutOfRange(t *testing.T) {
	s := shim.New(failParser{diag: grammar.Diagnostics{Line: 40}})
	diags := Diagnose(s, "a\nbb")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if got := diags[0].Range.Start.Line; got != 1 {
		t.Errorf("Line = %d, want 1", got)
	}
	if got := diags[0].Range.End.Character; got != 2 {
		t.Errorf("End.Character = %d, want 2", got)
	}
}

func TestDiagnoseErrorObject(t *testing.T) {
	// echo hands the document back, so the document itself is the engine output
	text := `{"error": true, "message": "Unexpected token at line 1, column 3."}`
	diags := Diagnose(shim.New(grammar.Echo{}), text)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if got := diags[0].Range.Start.Line; got != 0 {
		t.Errorf("Line = %d, want 0", got)
	}
}

func TestDiagnoseUnknownKind(t *testing.T) {
	text := "{\"type\": \"STATEMENTBLOCK\", \"statements\": [\n{\"type\": \"GOTO\", \"line\": \"2\"}]}"
	diags := Diagnose(shim.New(grammar.Echo{}), text)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if got := diags[0].Range.Start.Line; got != 1 {
		t.Errorf("Line = %d, want 1", got)
	}
	if !strings.Contains(diags[0].Message, "GOTO") {
		t.Errorf("Message = %q, want the node type", diags[0].Message)
	}
}

func TestUTF16Columns(t *testing.T) {
	s := shim.New(failParser{diag: grammar.Diagnostics{Line: 1, Token: "x"}})
	diags := Diagnose(s, `"😀" & x`)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if got := diags[0].Range.Start.Character; got != 7 {
		t.Errorf("Start.Character = %d, want 7", got)
	}
}
