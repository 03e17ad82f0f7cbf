package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// Kind tags the scalar variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

// Value is a tagged scalar cell: string, number, boolean, null or timestamp.
// Warehouse drivers normalize their native types into Values so the
// postprocessing rules can be applied uniformly.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
}

func Null() Value            { return Value{kind: KindNull} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind         { return v.kind }
func (v Value) IsNull() bool       { return v.kind == KindNull }
func (v Value) Str() string        { return v.str }
func (v Value) Num() float64       { return v.num }
func (v Value) BoolVal() bool      { return v.b }
func (v Value) TimeVal() time.Time { return v.t }

// FromAny converts a driver-native scalar into a Value. Unknown types are
// stringified rather than dropped.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		return Bool(x)
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case *big.Rat:
		f, _ := x.Float64()
		return Number(f)
	case time.Time:
		return Time(x)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	}
	return []byte("null"), nil
}

// UnmarshalJSON restores the variant from its JSON scalar form. Timestamps
// round-trip as strings; callers needing time.Time parse them explicitly.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(x)
	case float64:
		*v = Number(x)
	case bool:
		*v = Bool(x)
	default:
		*v = String(fmt.Sprintf("%v", x))
	}
	return nil
}

// Row is one result row keyed by column name.
type Row map[string]Value
