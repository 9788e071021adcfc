// Package ui serves a small web playground for the configured parser.
package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/shim"
	"github.com/tliron/commonlog"
)

//go:embed templates
var embeddedFS embed.FS

// MaxInput bounds request bodies.
const MaxInput = 1 << 20

var log = commonlog.GetLogger("lemonwrap.ui")

type Server struct {
	shim      *shim.Shim
	backend   string
	templates *template.Template
	mux       *http.ServeMux
}

func NewServer(s *shim.Shim, backend string) (*Server, error) {
	templates, err := template.ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		shim:      s,
		backend:   backend,
		templates: templates,
		mux:       http.NewServeMux(),
	}
	srv.mux.HandleFunc("GET /{$}", srv.handleIndex)
	srv.mux.HandleFunc("POST /{$}", srv.handleParseForm)
	srv.mux.HandleFunc("POST /api/parse", srv.handleParseJSON)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type page struct {
	Backend   string
	Input     string
	Result    string
	Error     string
	Submitted bool
}

func (s *Server) render(w http.ResponseWriter, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Errorf("render: %s", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, page{Backend: s.backend})
}

func (s *Server) handleParseForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxInput)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	data := page{Backend: s.backend, Input: r.FormValue("input"), Submitted: true}
	out, err := s.shim.Parse(data.Input)
	if err != nil {
		data.Error = err.Error()
	} else {
		data.Result = out
	}
	s.render(w, data)
}

type parseRequest struct {
	Input string `json:"input"`
}

type parseResponse struct {
	Result *string `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
	Line   int     `json:"line,omitempty"`
}

func (s *Server) handleParseJSON(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxInput)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var resp parseResponse
	status := http.StatusOK
	out, diag, err := s.shim.ParseDiagnostics(req.Input)
	if err != nil {
		resp.Error = err.Error()
		resp.Line = diag.Line
		status = http.StatusUnprocessableEntity
		var perr *grammar.ParseError
		if !errors.As(err, &perr) {
			status = http.StatusInternalServerError
		}
	} else {
		resp.Result = &out
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
