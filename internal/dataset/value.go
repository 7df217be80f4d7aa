package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar kind held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindFloat
	KindInt
	KindBool
	KindTime
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a dynamically typed scalar cell. The zero value is null,
// so looking up an absent field in a Record yields null.
type Value struct {
	kind    Kind
	str     string
	num     float64
	integer int64
	boolean bool
	ts      time.Time
}

// NullValue returns the null value
func NullValue() Value {
	return Value{}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// FloatValue creates a float value
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// IntValue creates an integer value
func IntValue(i int64) Value {
	return Value{kind: KindInt, integer: i}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// TimeValue creates a time value
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the scalar kind of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns a string representation of the value.
// Null values render as the empty string.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.integer, 10)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindTime:
		return v.ts.Format("2006-01-02")
	default:
		return ""
	}
}

// AsFloat attempts to coerce the value to a float64. String values are
// parsed after stripping thousands separators and surrounding space.
// A failed coercion reports false, never an error.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.num, true
	case KindInt:
		return float64(v.integer), true
	case KindString:
		s := strings.TrimSpace(strings.ReplaceAll(v.str, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsTime returns the value as a time if it holds one
func (v Value) AsTime() (time.Time, bool) {
	if v.kind == KindTime {
		return v.ts, true
	}
	return time.Time{}, false
}

// Interface returns the value as a plain Go value for serialization
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return v.num
	case KindInt:
		return v.integer
	case KindBool:
		return v.boolean
	case KindTime:
		return v.ts.Format("2006-01-02")
	default:
		return nil
	}
}

// key returns a canonical representation used for duplicate fingerprinting.
// The kind prefix keeps StringValue("1") distinct from FloatValue(1).
func (v Value) key() string {
	return fmt.Sprintf("%d:%s", v.kind, v.AsString())
}
