// Package ast decodes the JSON tree printed by the grammar engine.
//
// Every node is an object with a "type" field. Depending on the type, the
// remaining fields hold literal text ("value", "name", "ident", "varname"),
// a source line ("line"), or children ("arg", "statements", "condition",
// "thenbranch", "elsebranch", "expression"). "arg" holds a single node for
// unary forms and an array for binary operators and list literals.
package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/lemonwrap/grammar"
)

type Kind string

const (
	KindStatementBlock Kind = "STATEMENTBLOCK"
	KindWrite          Kind = "WRITE"
	KindTrace          Kind = "TRACE"
	KindAssign         Kind = "ASSIGN"
	KindIf             Kind = "IF"
	KindFor            Kind = "FOR"

	KindPlus      Kind = "PLUS"
	KindMinus     Kind = "MINUS"
	KindTimes     Kind = "TIMES"
	KindDivide    Kind = "DIVIDE"
	KindPower     Kind = "POWER"
	KindAmpersand Kind = "AMPERSAND"

	KindNumber   Kind = "NUMTOKEN"
	KindString   Kind = "STRTOKEN"
	KindTime     Kind = "TIMETOKEN"
	KindVariable Kind = "VARIABLE"
	KindNull     Kind = "NULL"
	KindTrue     Kind = "TRUE"
	KindFalse    Kind = "FALSE"
	KindList     Kind = "LIST"

	KindUppercase   Kind = "UPPERCASE"
	KindMaximum     Kind = "MAXIMUM"
	KindAverage     Kind = "AVERAGE"
	KindIncrease    Kind = "INCREASE"
	KindNow         Kind = "NOW"
	KindCurrentTime Kind = "CURRENTTIME"
	KindTimeOf      Kind = "TIME"
)

type Node struct {
	Type       Kind   `json:"type"`
	Value      Text   `json:"value,omitempty"`
	Name       string `json:"name,omitempty"`
	Ident      string `json:"ident,omitempty"`
	Varname    string `json:"varname,omitempty"`
	Line       Text   `json:"line,omitempty"`
	Arg        Nodes  `json:"arg,omitempty"`
	Statements Nodes  `json:"statements,omitempty"`
	Condition  *Node  `json:"condition,omitempty"`
	Thenbranch *Node  `json:"thenbranch,omitempty"`
	Elsebranch *Node  `json:"elsebranch,omitempty"`
	Expression *Node  `json:"expression,omitempty"`

	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Nodes decodes from either a single node or an array of nodes.
type Nodes []*Node

func (ns *Nodes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*ns = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []*Node
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*ns = list
		return nil
	default:
		var n Node
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*ns = Nodes{&n}
		return nil
	}
}

// Text decodes from a JSON string, number or boolean and keeps the
// literal text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

// Int returns the text as an integer, or 0.
func (t Text) Int() int {
	n, _ := strconv.Atoi(strings.TrimSpace(string(t)))
	return n
}

// Decode parses the engine's JSON output. An error object reported by the
// engine is returned as a *grammar.ParseError.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode syntax tree: %w", err)
	}
	if n.Error {
		return nil, &grammar.ParseError{
			Diagnostics: grammar.Diagnostics{Line: grammar.LineFromMessage(n.Message)},
			Message:     n.Message,
		}
	}
	if n.Type == "" {
		return nil, errors.New("decode syntax tree: root has no type")
	}
	return &n, nil
}

// Children returns the direct children of n in source order.
func (n *Node) Children() []*Node {
	var out []*Node
	out = append(out, n.Arg...)
	for _, c := range []*Node{n.Condition, n.Thenbranch, n.Elsebranch, n.Expression} {
		if c != nil {
			out = append(out, c)
		}
	}
	out = append(out, n.Statements...)
	return out
}

// Walk calls fn for n and its descendants in depth-first order, skipping
// the children of nodes for which fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// ErrUnknownKind is wrapped by *KindError.
var ErrUnknownKind = errors.New("unknown node type")

var kinds = map[Kind]bool{
	KindStatementBlock: true, KindWrite: true, KindTrace: true,
	KindAssign: true, KindIf: true, KindFor: true,
	KindPlus: true, KindMinus: true, KindTimes: true,
	KindDivide: true, KindPower: true, KindAmpersand: true,
	KindNumber: true, KindString: true, KindTime: true,
	KindVariable: true, KindNull: true, KindTrue: true,
	KindFalse: true, KindList: true,
	KindUppercase: true, KindMaximum: true, KindAverage: true,
	KindIncrease: true, KindNow: true, KindCurrentTime: true,
	KindTimeOf: true,
}

// Known reports whether k is a node type of the language.
func (k Kind) Known() bool { return kinds[k] }

// KindError reports a node of unknown type. Line is the last source line
// seen before the node in depth-first order, or 0.
type KindError struct {
	Kind Kind
	Line int
}

func (e *KindError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %q", e.Line, ErrUnknownKind, e.Kind)
	}
	return fmt.Sprintf("%s %q", ErrUnknownKind, e.Kind)
}

func (e *KindError) Unwrap() error { return ErrUnknownKind }

// Validate returns a *KindError for the first node of unknown type.
func Validate(root *Node) error {
	var (
		line int
		bad  *KindError
	)
	Walk(root, func(n *Node) bool {
		if bad != nil {
			return false
		}
		if l := n.Line.Int(); l > 0 {
			line = l
		}
		if !n.Type.Known() {
			bad = &KindError{Kind: n.Type, Line: line}
			return false
		}
		return true
	})
	if bad != nil {
		return bad
	}
	return nil
}

// String renders n as an s-expression.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("()")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(string(n.Type))
	switch n.Type {
	case KindNumber, KindTime:
		sb.WriteByte(' ')
		sb.WriteString(string(n.Value))
	case KindString:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(string(n.Value)))
	case KindVariable:
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
	case KindAssign:
		sb.WriteByte(' ')
		sb.WriteString(n.Ident)
	case KindFor:
		sb.WriteByte(' ')
		sb.WriteString(n.Varname)
	case KindTrace:
		if n.Line != "" {
			sb.WriteString(" @")
			sb.WriteString(string(n.Line))
		}
	}
	for _, c := range n.Children() {
		sb.WriteByte(' ')
		c.writeTo(sb)
	}
	sb.WriteByte(')')
}
