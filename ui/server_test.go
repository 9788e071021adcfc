package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/mem"
	"github.com/dhamidi/lemonwrap/shim"
)

type failParser struct{}

func (failParser) Parse(_ []byte, diag *grammar.Diagnostics) (*grammar.Result, error) {
	diag.Line = 3
	return nil, &grammar.ParseError{Diagnostics: *diag, Message: "unexpected endif"}
}

func newTestServer(t *testing.T, p grammar.Parser) *Server {
	t.Helper()
	srv, err := NewServer(shim.New(p), "test")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, grammar.Echo{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<textarea") {
		t.Errorf("body has no form:\n%s", rec.Body.String())
	}
}

func TestParseForm(t *testing.T) {
	srv := newTestServer(t, grammar.Echo{})
	form := url.Values{"input": {"write <b>;"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "RESULT:\nwrite &lt;b&gt;;</pre>") {
		t.Errorf("escaped result missing:\n%s", body)
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name       string
		parser     grammar.Parser
		wantStatus int
		wantResult string
		wantLine   int
	}{
		{"echo", grammar.Echo{}, http.StatusOK, "hello", 0},
		{"parse error", failParser{}, http.StatusUnprocessableEntity, "", 3},
		{"out of memory", grammar.Echo{Alloc: mem.NewLimit(nil, 2)}, http.StatusInternalServerError, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.parser)
			req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(`{"input": "hello"}`))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp parseResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.wantResult != "" && (resp.Result == nil || *resp.Result != tt.wantResult) {
				t.Errorf("result = %v, want %q", resp.Result, tt.wantResult)
			}
			if resp.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", resp.Line, tt.wantLine)
			}
		})
	}
}

func TestParseJSONInvalid(t *testing.T) {
	srv := newTestServer(t, grammar.Echo{})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
