package format

import (
	"bytes"
	"io"
)

// Header precedes every result in text output.
const Header = "RESULT:"

// TextEncoder writes "RESULT:\n<result>\n".
type TextEncoder struct {
	w      io.Writer
	report *Report
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(r *Report) error {
	e.report = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	r := e.report
	if r.Err != nil {
		buf.WriteString("ERROR: ")
		buf.WriteString(r.Err.Error())
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
	buf.Grow(len(Header) + len(r.Result) + 2)
	buf.WriteString(Header)
	buf.WriteByte('\n')
	buf.Write(r.Result)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
