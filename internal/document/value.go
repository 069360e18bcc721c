package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is one scalar cell of a Document. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Null() Value                { return Value{} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func DateTime(text string) Value { return Value{kind: KindDateTime, s: text} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the value as an integer. Strings holding an integer convert.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < math.MaxInt64 {
			return int64(v.f), true
		}
	case KindString:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Text is the textual form used for binding and exporting. Null is empty.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString, KindDateTime:
		return v.s
	default:
		return ""
	}
}

// Interface returns the Go value: nil, bool, int64, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString, KindDateTime:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.f, 'f', -1, 64)), nil
	case KindString, KindDateTime:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	parsed, err := fromToken(tok)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// fromToken converts a scalar JSON token. Objects and arrays are rejected
// since documents are flat.
func fromToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v: documents hold scalars only", tok)
	}
}
