// Package types defines the runtime values and errors of the sexpq query
// language: undefined, null, bool, int, double, string, list and map.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// ValueType represents the type of a query value.
type ValueType int

const (
	TypeUndefined ValueType = iota // missing record field
	TypeNull
	TypeBool   // bool
	TypeInt    // int64
	TypeDouble // float64
	TypeString // string
	TypeList   // []Value
	TypeMap    // ordered map of string -> Value
)

// String returns the type name used in results and error messages.
func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a query runtime value. The zero Value is Undefined.
type Value struct {
	typ       ValueType
	boolVal   bool
	intVal    int64
	doubleVal float64
	stringVal string
	listVal   []Value
	mapVal    *OrderedMap
}

// Record is the input a query is evaluated against.
type Record map[string]Value

// Lookup returns the named field, or Undefined when it is absent.
func (r Record) Lookup(name string) Value {
	v, ok := r[name]
	if !ok {
		return Undefined
	}
	return v
}

// OrderedMap keeps the key order of the document a record was decoded from.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap creates a new empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		keys:   make([]string, 0),
		values: make(map[string]Value),
	}
}

// Get retrieves a value by key. Returns the value and whether it exists.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set adds or updates a key-value pair, preserving insertion order.
func (m *OrderedMap) Set(key string, val Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

var (
	// Undefined is the value of a record field that does not exist.
	Undefined = Value{typ: TypeUndefined}
	// Null is the singleton null value.
	Null = Value{typ: TypeNull}
)

// NewBool creates a boolean value.
func NewBool(v bool) Value {
	return Value{typ: TypeBool, boolVal: v}
}

// NewInt creates an integer value (64-bit).
func NewInt(v int64) Value {
	return Value{typ: TypeInt, intVal: v}
}

// NewDouble creates a double value (64-bit float).
func NewDouble(v float64) Value {
	return Value{typ: TypeDouble, doubleVal: v}
}

// NewString creates a string value.
func NewString(v string) Value {
	return Value{typ: TypeString, stringVal: v}
}

// NewList creates a list value from a slice of values.
func NewList(v []Value) Value {
	return Value{typ: TypeList, listVal: v}
}

// NewMap creates a map value from an OrderedMap.
func NewMap(v *OrderedMap) Value {
	return Value{typ: TypeMap, mapVal: v}
}

// Type returns the value's type.
func (v Value) Type() ValueType {
	return v.typ
}

// IsUndefined reports whether v is the missing-field marker.
func (v Value) IsUndefined() bool {
	return v.typ == TypeUndefined
}

// IsNull returns true if the value is null.
func (v Value) IsNull() bool {
	return v.typ == TypeNull
}

// IsNumber reports whether v is an int or a double.
func (v Value) IsNumber() bool {
	return v.typ == TypeInt || v.typ == TypeDouble
}

// AsBool returns the boolean value. Panics if not a bool.
func (v Value) AsBool() bool {
	if v.typ != TypeBool {
		panic(fmt.Sprintf("AsBool called on %s value", v.typ))
	}
	return v.boolVal
}

// AsInt returns the integer value. Panics if not an int.
func (v Value) AsInt() int64 {
	if v.typ != TypeInt {
		panic(fmt.Sprintf("AsInt called on %s value", v.typ))
	}
	return v.intVal
}

// AsDouble returns the double value. Panics if not a double.
func (v Value) AsDouble() float64 {
	if v.typ != TypeDouble {
		panic(fmt.Sprintf("AsDouble called on %s value", v.typ))
	}
	return v.doubleVal
}

// AsString returns the string value. Panics if not a string.
func (v Value) AsString() string {
	if v.typ != TypeString {
		panic(fmt.Sprintf("AsString called on %s value", v.typ))
	}
	return v.stringVal
}

// AsList returns the list value. Panics if not a list.
func (v Value) AsList() []Value {
	if v.typ != TypeList {
		panic(fmt.Sprintf("AsList called on %s value", v.typ))
	}
	return v.listVal
}

// AsMap returns the map value. Panics if not a map.
func (v Value) AsMap() *OrderedMap {
	if v.typ != TypeMap {
		panic(fmt.Sprintf("AsMap called on %s value", v.typ))
	}
	return v.mapVal
}

// AsNumber returns the numeric value as float64. Works for int and double types.
func (v Value) AsNumber() (float64, bool) {
	switch v.typ {
	case TypeInt:
		return float64(v.intVal), true
	case TypeDouble:
		return v.doubleVal, true
	default:
		return 0, false
	}
}

// Equal is strict equality. Values of different types are never equal,
// except int and double which compare numerically. Undefined is not equal
// to anything, itself included.
func (v Value) Equal(other Value) bool {
	if v.typ == TypeUndefined || other.typ == TypeUndefined {
		return false
	}
	if v.typ != other.typ {
		if v.IsNumber() && other.IsNumber() {
			a, _ := v.AsNumber()
			b, _ := other.AsNumber()
			return a == b
		}
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.boolVal == other.boolVal
	case TypeInt:
		return v.intVal == other.intVal
	case TypeDouble:
		return v.doubleVal == other.doubleVal
	case TypeString:
		return v.stringVal == other.stringVal
	case TypeList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(other.listVal[i]) {
				return false
			}
		}
		return true
	case TypeMap:
		if v.mapVal.Len() != other.mapVal.Len() {
			return false
		}
		for _, k := range v.mapVal.Keys() {
			ov, ok := other.mapVal.Get(k)
			if !ok {
				return false
			}
			mv, _ := v.mapVal.Get(k)
			if !mv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two numbers or two strings. ok is false for every other
// pairing; callers treat such comparisons as false rather than failing.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.IsNumber() && other.IsNumber() {
		a, _ := v.AsNumber()
		b, _ := other.AsNumber()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	}
	if v.typ == TypeString && other.typ == TypeString {
		return strings.Compare(v.stringVal, other.stringVal), true
	}
	return 0, false
}

// String returns a human-readable representation of the value.
func (v Value) String() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return strconv.FormatBool(v.boolVal)
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeDouble:
		return strconv.FormatFloat(v.doubleVal, 'g', -1, 64)
	case TypeString:
		return v.stringVal
	case TypeList:
		parts := make([]string, len(v.listVal))
		for i, item := range v.listVal {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeMap:
		parts := make([]string, 0, v.mapVal.Len())
		for _, k := range v.mapVal.Keys() {
			val, _ := v.mapVal.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, val.String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<unknown>"
}

// Literal renders a scalar the way it is written in a query. Strings are
// quoted as JSON string literals.
func (v Value) Literal() string {
	switch v.typ {
	case TypeString:
		return string(quote(v.stringVal))
	case TypeDouble:
		return strconv.FormatFloat(v.doubleVal, 'f', -1, 64)
	default:
		return v.String()
	}
}

// MarshalJSON encodes the value as JSON. Undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return []byte("null"), nil
	case TypeBool:
		return []byte(strconv.FormatBool(v.boolVal)), nil
	case TypeInt:
		return json.Marshal(v.intVal)
	case TypeDouble:
		return json.Marshal(v.doubleVal)
	case TypeString:
		return quote(v.stringVal), nil
	case TypeList:
		buf := []byte{'['}
		for i, item := range v.listVal {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	case TypeMap:
		buf := []byte{'{'}
		for i, k := range v.mapVal.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, quote(k)...)
			buf = append(buf, ':')
			val, _ := v.mapVal.Get(k)
			valBytes, err := val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, valBytes...)
		}
		buf = append(buf, '}')
		return buf, nil
	}
	return nil, fmt.Errorf("cannot marshal unknown type %d", v.typ)
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) []byte {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	return []byte(strings.TrimSuffix(sb.String(), "\n"))
}

// FromFastJSON converts a parsed fastjson value. Integral numbers that fit in
// an int64 become ints, everything else numeric becomes a double.
func FromFastJSON(v *fastjson.Value) Value {
	if v == nil {
		return Null
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return Null
	case fastjson.TypeTrue:
		return NewBool(true)
	case fastjson.TypeFalse:
		return NewBool(false)
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return NewInt(i)
		}
		f, _ := v.Float64()
		return NewDouble(f)
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return NewString(string(b))
	case fastjson.TypeArray:
		arr, _ := v.Array()
		items := make([]Value, len(arr))
		for i, item := range arr {
			items[i] = FromFastJSON(item)
		}
		return NewList(items)
	case fastjson.TypeObject:
		obj, _ := v.Object()
		m := NewOrderedMap()
		obj.Visit(func(key []byte, item *fastjson.Value) {
			m.Set(string(key), FromFastJSON(item))
		})
		return NewMap(m)
	}
	return Undefined
}

// FromGo converts a plain Go value, as produced by encoding/json, yaml.v3 or
// structpb, into a Value.
func FromGo(v interface{}) Value {
	if v == nil {
		return Null
	}
	switch val := v.(type) {
	case Value:
		return val
	case bool:
		return NewBool(val)
	case int:
		return NewInt(int64(val))
	case int32:
		return NewInt(int64(val))
	case int64:
		return NewInt(val)
	case uint64:
		if val <= math.MaxInt64 {
			return NewInt(int64(val))
		}
		return NewDouble(float64(val))
	case float32:
		return fromFloat(float64(val))
	case float64:
		return fromFloat(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return NewInt(i)
		}
		if f, err := val.Float64(); err == nil {
			return NewDouble(f)
		}
		return NewString(val.String())
	case string:
		return NewString(val)
	case []interface{}:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromGo(item)
		}
		return NewList(items)
	case map[string]interface{}:
		m := NewOrderedMap()
		// Go maps are unordered; sort keys for determinism
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, FromGo(val[k]))
		}
		return NewMap(m)
	default:
		return NewString(fmt.Sprintf("%v", val))
	}
}

// fromFloat keeps whole numbers as ints so that values decoded from
// float-only sources (structpb, encoding/json) match query constants.
func fromFloat(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < 1<<63 {
		return NewInt(int64(f))
	}
	return NewDouble(f)
}

// RecordFromGo converts a decoded JSON object into a Record.
func RecordFromGo(m map[string]interface{}) Record {
	rec := make(Record, len(m))
	for k, v := range m {
		rec[k] = FromGo(v)
	}
	return rec
}

// RecordFromMap converts a map value into a Record.
func RecordFromMap(v Value) (Record, error) {
	if v.typ != TypeMap {
		return nil, fmt.Errorf("record must be an object, got %s", v.typ)
	}
	rec := make(Record, v.mapVal.Len())
	for _, k := range v.mapVal.Keys() {
		rec[k], _ = v.mapVal.Get(k)
	}
	return rec, nil
}

// ToGoValue converts a Value to a plain Go interface{} suitable for JSON marshaling.
func (v Value) ToGoValue() interface{} {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return nil
	case TypeBool:
		return v.boolVal
	case TypeInt:
		return v.intVal
	case TypeDouble:
		return v.doubleVal
	case TypeString:
		return v.stringVal
	case TypeList:
		result := make([]interface{}, len(v.listVal))
		for i, item := range v.listVal {
			result[i] = item.ToGoValue()
		}
		return result
	case TypeMap:
		result := make(map[string]interface{}, v.mapVal.Len())
		for _, k := range v.mapVal.Keys() {
			val, _ := v.mapVal.Get(k)
			result[k] = val.ToGoValue()
		}
		return result
	}
	return nil
}
