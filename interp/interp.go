// Package interp executes syntax trees decoded by package ast.
//
// Programs run against a single global environment. write and trace print
// one line each to the configured output.
package interp

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/lemonwrap/ast"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrUndefined      = errors.New("undefined variable")
	ErrDivisionByZero = errors.New("division by zero")
	ErrUnknownNode    = ast.ErrUnknownKind
	ErrEmptyList      = errors.New("empty list")
	ErrInvalidTime    = errors.New("invalid time")
)

type Option func(*Interpreter)

func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		in.now = now
	}
}

type Interpreter struct {
	out io.Writer
	now func() time.Time
	env map[string]Value
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out: os.Stdout,
		now: time.Now,
		env: make(map[string]Value),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes a program. Variables persist across calls. A program with
// an unknown node type is rejected before anything runs.
func (in *Interpreter) Run(n *ast.Node) error {
	if err := ast.Validate(n); err != nil {
		return err
	}
	_, err := in.Eval(n)
	return err
}

// Lookup returns the current value of a variable.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	v, ok := in.env[name]
	return v, ok
}

// Eval evaluates n. Statements evaluate to Null.
func (in *Interpreter) Eval(n *ast.Node) (Value, error) {
	if n == nil {
		return Null{}, nil
	}
	switch n.Type {
	case ast.KindStatementBlock:
		return Null{}, in.block(n.Statements)

	case ast.KindWrite:
		v, err := in.arg(n)
		if err != nil {
			return nil, err
		}
		_, err = fmt.Fprintln(in.out, Format(v))
		return Null{}, err

	case ast.KindTrace:
		v, err := in.arg(n)
		if err != nil {
			return nil, err
		}
		_, err = fmt.Fprintf(in.out, "Line %d: %s\n", n.Line.Int(), Format(v))
		return Null{}, err

	case ast.KindAssign:
		v, err := in.arg(n)
		if err != nil {
			return nil, err
		}
		in.env[n.Ident] = v
		return Null{}, nil

	case ast.KindIf:
		cond, err := in.Eval(n.Condition)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return in.Eval(n.Thenbranch)
		}
		return in.Eval(n.Elsebranch)

	case ast.KindFor:
		return Null{}, in.loop(n)

	case ast.KindPlus, ast.KindMinus, ast.KindTimes, ast.KindDivide, ast.KindPower:
		return in.arithmetic(n)

	case ast.KindAmpersand:
		l, r, err := in.operands(n)
		if err != nil {
			return nil, err
		}
		return String(Format(l) + Format(r)), nil

	case ast.KindNumber:
		f, err := strconv.ParseFloat(string(n.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("number literal %q: %w", n.Value, err)
		}
		return Number(f), nil
	case ast.KindString:
		return String(n.Value), nil
	case ast.KindTrue:
		return Bool(true), nil
	case ast.KindFalse:
		return Bool(false), nil
	case ast.KindNull:
		return Null{}, nil

	case ast.KindVariable:
		v, ok := in.env[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefined, n.Name)
		}
		return v, nil

	case ast.KindList:
		items := make(List, 0, len(n.Arg))
		for _, a := range n.Arg {
			v, err := in.Eval(a)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil

	case ast.KindUppercase:
		return in.uppercase(n)
	case ast.KindMaximum, ast.KindAverage:
		return in.aggregate(n)
	case ast.KindIncrease:
		return in.increase(n)

	case ast.KindNow, ast.KindCurrentTime:
		return unixSeconds(in.now()), nil
	case ast.KindTime:
		t, err := ParseTimeOfDay(string(n.Value), in.now())
		if err != nil {
			return nil, err
		}
		return unixSeconds(t), nil
	case ast.KindTimeOf:
		v, err := in.arg(n)
		if err != nil {
			return nil, err
		}
		num, ok := v.(Number)
		if !ok {
			return nil, fmt.Errorf("%w: time of %s", ErrTypeMismatch, v.typeName())
		}
		return String(FormatTimestamp(float64(num))), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNode, n.Type)
}

func (in *Interpreter) block(stmts ast.Nodes) error {
	for _, s := range stmts {
		if _, err := in.Eval(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) loop(n *ast.Node) error {
	v, err := in.Eval(n.Expression)
	if err != nil {
		return err
	}
	items, ok := v.(List)
	if !ok {
		return fmt.Errorf("%w: cannot iterate over %s", ErrTypeMismatch, v.typeName())
	}
	for _, item := range items {
		in.env[n.Varname] = item
		if err := in.block(n.Statements); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) arg(n *ast.Node) (Value, error) {
	if len(n.Arg) != 1 {
		return nil, fmt.Errorf("%s: expected one argument, got %d", n.Type, len(n.Arg))
	}
	return in.Eval(n.Arg[0])
}

func (in *Interpreter) operands(n *ast.Node) (Value, Value, error) {
	if len(n.Arg) != 2 {
		return nil, nil, fmt.Errorf("%s: expected two operands, got %d", n.Type, len(n.Arg))
	}
	l, err := in.Eval(n.Arg[0])
	if err != nil {
		return nil, nil, err
	}
	r, err := in.Eval(n.Arg[1])
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (in *Interpreter) arithmetic(n *ast.Node) (Value, error) {
	l, r, err := in.operands(n)
	if err != nil {
		return nil, err
	}
	a, aok := l.(Number)
	b, bok := r.(Number)
	if !aok || !bok {
		return nil, fmt.Errorf("%w: %s of %s and %s", ErrTypeMismatch, strings.ToLower(string(n.Type)), l.typeName(), r.typeName())
	}
	switch n.Type {
	case ast.KindPlus:
		return a + b, nil
	case ast.KindMinus:
		return a - b, nil
	case ast.KindTimes:
		return a * b, nil
	case ast.KindDivide:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return a / b, nil
	default:
		return Number(math.Pow(float64(a), float64(b))), nil
	}
}

func (in *Interpreter) uppercase(n *ast.Node) (Value, error) {
	v, err := in.arg(n)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case String:
		return String(strings.ToUpper(string(v))), nil
	case List:
		out := make(List, len(v))
		for i, item := range v {
			s, ok := item.(String)
			if !ok {
				return nil, fmt.Errorf("%w: uppercase of %s in list", ErrTypeMismatch, item.typeName())
			}
			out[i] = String(strings.ToUpper(string(s)))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: uppercase of %s", ErrTypeMismatch, v.typeName())
}

func (in *Interpreter) numbers(n *ast.Node) ([]float64, error) {
	v, err := in.arg(n)
	if err != nil {
		return nil, err
	}
	list, ok := v.(List)
	if !ok {
		return nil, fmt.Errorf("%w: %s of %s", ErrTypeMismatch, strings.ToLower(string(n.Type)), v.typeName())
	}
	out := make([]float64, len(list))
	for i, item := range list {
		num, ok := item.(Number)
		if !ok {
			return nil, fmt.Errorf("%w: %s of list containing %s", ErrTypeMismatch, strings.ToLower(string(n.Type)), item.typeName())
		}
		out[i] = float64(num)
	}
	return out, nil
}

func (in *Interpreter) aggregate(n *ast.Node) (Value, error) {
	nums, err := in.numbers(n)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyList, strings.ToLower(string(n.Type)))
	}
	if n.Type == ast.KindMaximum {
		hi := nums[0]
		for _, x := range nums[1:] {
			hi = math.Max(hi, x)
		}
		return Number(hi), nil
	}
	var sum float64
	for _, x := range nums {
		sum += x
	}
	return Number(sum / float64(len(nums))), nil
}

func (in *Interpreter) increase(n *ast.Node) (Value, error) {
	nums, err := in.numbers(n)
	if err != nil {
		return nil, err
	}
	out := List{}
	for i := 1; i < len(nums); i++ {
		out = append(out, Number(nums[i]-nums[i-1]))
	}
	return out, nil
}
