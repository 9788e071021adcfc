package interp

import (
	"strconv"
	"strings"
)

// Value is a runtime value: Number, String, Bool, Null or List.
type Value interface {
	typeName() string
}

type (
	Number float64
	String string
	Bool   bool
	Null   struct{}
	List   []Value
)

func (Number) typeName() string { return "number" }
func (String) typeName() string { return "string" }
func (Bool) typeName() string   { return "bool" }
func (Null) typeName() string   { return "null" }
func (List) typeName() string   { return "list" }

// Format renders v the way write prints it.
func Format(v Value) string {
	switch v := v.(type) {
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case String:
		return string(v)
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case List:
		items := make([]string, len(v))
		for i, item := range v {
			if _, nested := item.(List); nested {
				items[i] = "[...]"
				continue
			}
			items[i] = Format(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return "null"
	}
}

// Truthy reports how v behaves as an if condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	case List:
		return len(v) > 0
	default:
		return false
	}
}
