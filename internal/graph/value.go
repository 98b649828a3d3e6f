package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "invalid"
	}
}

// Value is a primitive attribute value: a string, a number or a boolean.
// The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }

// ValueOf converts a Go primitive into a Value. Integer and float kinds all
// become numbers. NaN and infinities are rejected: neither record encoding
// can carry them.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if x.kind == 0 {
			return Value{}, fmt.Errorf("invalid attribute value")
		}
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return NumberValue(float64(x)), nil
	case int8:
		return NumberValue(float64(x)), nil
	case int16:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case uint:
		return NumberValue(float64(x)), nil
	case uint8:
		return NumberValue(float64(x)), nil
	case uint16:
		return NumberValue(float64(x)), nil
	case uint32:
		return NumberValue(float64(x)), nil
	case uint64:
		return NumberValue(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return finite(f)
	default:
		return Value{}, fmt.Errorf("unsupported attribute value type %T", v)
	}
}

func finite(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("non-finite number %v", f)
	}
	return NumberValue(f), nil
}

// IsFinite reports whether v is anything but a NaN or infinite number.
func (v Value) IsFinite() bool {
	return v.kind != KindNumber || !(math.IsNaN(v.num) || math.IsInf(v.num, 0))
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind != 0 }

func (v Value) AsString() string { return v.str }

func (v Value) AsNumber() float64 { return v.num }

func (v Value) AsBool() bool { return v.b }

// Any returns the value as string, float64 or bool.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String formats the value for tables and labels.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == 0 {
		return nil, fmt.Errorf("cannot marshal invalid attribute value")
	}
	if !v.IsFinite() {
		return nil, fmt.Errorf("cannot marshal non-finite number %v", v.num)
	}
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Attr is a single named attribute.
type Attr struct {
	Name  string
	Value Value
}

func String(name, v string) Attr { return Attr{Name: name, Value: StringValue(v)} }

func Number(name string, v float64) Attr { return Attr{Name: name, Value: NumberValue(v)} }

func Bool(name string, v bool) Attr { return Attr{Name: name, Value: BoolValue(v)} }
