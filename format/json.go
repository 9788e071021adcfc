package format

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/dhamidi/lemonwrap/grammar"
)

type JSONEncoder struct {
	w      io.Writer
	report *Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(r *Report) error {
	e.report = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

type jsonReport struct {
	Source      string               `json:"source,omitempty"`
	Result      *string              `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
	Diagnostics *grammar.Diagnostics `json:"diagnostics,omitempty"`
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	r := e.report
	data := jsonReport{Source: r.Source}
	if r.Err != nil {
		data.Error = r.Err.Error()
		var perr *grammar.ParseError
		if errors.As(r.Err, &perr) {
			d := perr.Diagnostics
			data.Diagnostics = &d
		}
	} else {
		result := string(r.Result)
		data.Result = &result
		if r.Diagnostics != (grammar.Diagnostics{}) {
			d := r.Diagnostics
			data.Diagnostics = &d
		}
	}
	return json.MarshalIndent(data, "", "  ")
}
