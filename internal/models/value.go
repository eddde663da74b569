package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is an answer value: a single scalar (string, number or bool) or a list of scalars.
// The zero Value is an empty scalar.
type Value struct {
	scalar any
	list   []any
	isList bool
}

// Scalar wraps a single string, number or bool.
func Scalar(v any) Value {
	return Value{scalar: normalizeScalar(v)}
}

// List wraps a list of scalars.
func List(items ...any) Value {
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, normalizeScalar(item))
	}
	return Value{list: list, isList: true}
}

// Strings wraps a list of strings, typically selected option ids.
func Strings(items ...string) Value {
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}
	return Value{list: list, isList: true}
}

func (v Value) IsList() bool {
	return v.isList
}

// IsEmpty reports whether nothing was recorded: nil, "", or an empty list.
func (v Value) IsEmpty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	if v.scalar == nil {
		return true
	}
	s, ok := v.scalar.(string)
	return ok && strings.TrimSpace(s) == ""
}

// Raw returns the underlying scalar, or the list as []any.
func (v Value) Raw() any {
	if v.isList {
		return v.list
	}
	return v.scalar
}

// Items returns the list elements; a scalar value yields nil.
func (v Value) Items() []any {
	if !v.isList {
		return nil
	}
	return v.list
}

// Strings returns every element in string form. A non-empty scalar yields a single element.
func (v Value) Strings() []string {
	if v.isList {
		out := make([]string, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, scalarString(item))
		}
		return out
	}
	if v.IsEmpty() {
		return []string{}
	}
	return []string{scalarString(v.scalar)}
}

// String renders the value for display. Lists are joined with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.Strings(), ", ")
	}
	return scalarString(v.scalar)
}

// Float coerces a scalar value to a number. Lists, bools, empty strings and
// non-numeric strings are not numbers.
func (v Value) Float() (float64, bool) {
	if v.isList {
		return 0, false
	}
	return scalarFloat(v.scalar)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		for i, item := range items {
			if !isScalar(item) {
				return fmt.Errorf("value list element %d is not a scalar", i)
			}
		}
		*v = List(items...)
		return nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	if !isScalar(raw) {
		return fmt.Errorf("value must be a scalar or a list of scalars")
	}
	*v = Scalar(raw)
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64:
		return true
	}
	return false
}

func normalizeScalar(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case float32:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

func scalarFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
