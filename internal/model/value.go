package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Kind discriminates the JSON shapes a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is one JSON value: null, string, number, bool, array or object.
// Object members keep insertion order and numbers keep their source text, so
// a document round-trips without reordered keys and without 1.0 turning
// into 1. The zero Value is null.
type Value struct {
	kind Kind
	str  string // string content, or raw number text
	b    bool
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue wraps raw decimal text. The text must already be a valid JSON
// number; it is emitted verbatim.
func NumberValue(text string) Value {
	return Value{kind: KindNumber, str: text}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

// ObjectValue returns an empty object; grow it with Set.
func ObjectValue() Value {
	return Value{kind: KindObject, obj: orderedmap.New[string, Value]()}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the raw number text.
func (v Value) AsNumber() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.str, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (*orderedmap.OrderedMap[string, Value], bool) {
	if v.kind != KindObject || v.obj == nil {
		return nil, false
	}
	return v.obj, true
}

// Member looks up an object member. Always false for non-objects.
func (v Value) Member(key string) (Value, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Set adds or replaces an object member, keeping first-insertion order.
// Reports whether the value was an object.
func (v Value) Set(key string, member Value) bool {
	if v.kind != KindObject || v.obj == nil {
		return false
	}
	v.obj.Set(key, member)
	return true
}

// MarshalJSON renders compact JSON: members in insertion order, number text
// verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

// JSON returns the compact JSON text.
func (v Value) JSON() string {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

// JSONIndent returns the JSON text indented with two spaces.
func (v Value) JSONIndent() string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(v.JSON()), "", "  "); err != nil {
		return v.JSON()
	}
	return out.String()
}

func (v Value) String() string {
	return v.JSON()
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindString:
		b, _ := json.Marshal(v.str)
		buf.Write(b)
	case KindNumber:
		buf.WriteString(v.str)
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(pair.Key)
			buf.Write(key)
			buf.WriteByte(':')
			pair.Value.encode(buf)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}
