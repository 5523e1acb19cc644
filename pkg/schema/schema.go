// Package schema holds the declarative description of every stored entity and
// the generic validator that interprets it.
//
// A Schema is plain data: an ordered list of fields, each with a kind, a
// required flag and an optional rule tag understood by go-playground/validator
// (for example "min=10,max=2000" or "email"). Validate checks every field and
// reports every violation it finds, not only the first.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Kind int

const (
	KindString Kind = iota + 1
	KindInteger
	KindNumber
	KindBoolean
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindStringList:
		return "list of strings"
	default:
		return "unknown"
	}
}

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    string
	Default  any
}

type Schema struct {
	Entity string
	Fields []Field
}

// Document is a validated record ready for storage. Values are normalized:
// integers are int64, numbers float64, lists []string.
type Document map[string]any

// coerce converts a decoded JSON value into the normalized Go type for kind.
func coerce(kind Kind, value any) (any, bool) {
	switch kind {
	case KindString:
		s, ok := value.(string)
		return s, ok
	case KindInteger:
		return toInt64(value)
	case KindNumber:
		return toFloat64(value)
	case KindBoolean:
		b, ok := value.(bool)
		return b, ok
	case KindStringList:
		return toStringList(value)
	}
	return nil, false
}

func toInt64(value any) (any, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return nil, false
		}
		return int64(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return toInt64(f)
	}
	return nil, false
}

func toFloat64(value any) (any, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func toStringList(value any) (any, bool) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

const (
	ReasonMissing    = "missing"
	ReasonWrongType  = "wrong_type"
	ReasonOutOfRange = "out_of_range"
	ReasonBadFormat  = "bad_format"
	ReasonInvalid    = "invalid"
)

type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields lists the names of the violated fields in report order.
func (v ValidationErrors) Fields() []string {
	names := make([]string, 0, len(v))
	for _, err := range v {
		names = append(names, err.Field)
	}
	return names
}

func (v ValidationErrors) Has(field string) bool {
	for _, err := range v {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Details shapes the violations for an HTTP error body.
func (v ValidationErrors) Details() map[string]any {
	return map[string]any{"errors": []FieldError(v)}
}
