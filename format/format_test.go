package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/lemonwrap/grammar"
)

func TestTextEncoder(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{"result", Report{Result: []byte("abc")}, "RESULT:\nabc\n"},
		{"empty", Report{}, "RESULT:\n\n"},
		{"error", Report{Err: &grammar.ParseError{Message: "boom"}}, "ERROR: parse error: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTextEncoder(&buf).Encode(&tt.report); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONEncoder(&buf).Encode(&Report{
		Source: "a.txt",
		Err: &grammar.ParseError{
			Diagnostics: grammar.Diagnostics{Line: 2, Token: "then"},
			Message:     "unexpected",
		},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got struct {
		Source      string
		Error       string
		Result      *string
		Diagnostics grammar.Diagnostics
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Source != "a.txt" || got.Result != nil || got.Diagnostics.Line != 2 || got.Diagnostics.Token != "then" {
		t.Errorf("unexpected report: %+v", got)
	}
}

func TestJSONEncoderEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(&Report{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "{\n  \"result\": \"\"\n}\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "text", "json"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml): expected error")
	}
}
