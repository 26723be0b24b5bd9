package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/valyala/fastjson"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewDouble(1.0), true},
		{NewDouble(0.5), NewDouble(0.5), true},
		{NewInt(1), NewString("1"), false},
		{NewBool(true), NewInt(1), false},
		{Null, Null, true},
		{Null, NewBool(false), false},
		{Undefined, Undefined, false},
		{Undefined, Null, false},
		{NewString("a"), NewString("a"), true},
		{NewList([]Value{NewInt(1), NewString("x")}), NewList([]Value{NewDouble(1), NewString("x")}), true},
		{NewList([]Value{NewInt(1)}), NewList([]Value{NewInt(1), NewInt(2)}), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%v_%s_%v", tt.a.Type(), tt.a, tt.b.Type(), tt.b), func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal is not symmetric")
			}
		})
	}
}

func TestEqualMapsIgnoreOrder(t *testing.T) {
	a := NewOrderedMap()
	a.Set("x", NewInt(1))
	a.Set("y", NewInt(2))
	b := NewOrderedMap()
	b.Set("y", NewInt(2))
	b.Set("x", NewInt(1))
	if !NewMap(a).Equal(NewMap(b)) {
		t.Error("maps with the same entries should be equal")
	}
	b.Set("x", NewInt(3))
	if NewMap(a).Equal(NewMap(b)) {
		t.Error("maps with different values should not be equal")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b   Value
		cmp    int
		wantOK bool
	}{
		{NewInt(1), NewInt(2), -1, true},
		{NewDouble(2.5), NewInt(2), 1, true},
		{NewInt(3), NewDouble(3), 0, true},
		{NewString("abc"), NewString("abd"), -1, true},
		{NewString("b"), NewString("a"), 1, true},
		{NewString("1"), NewInt(1), 0, false},
		{Null, NewInt(0), 0, false},
		{NewBool(true), NewBool(false), 0, false},
		{Undefined, NewInt(1), 0, false},
	}

	for _, tt := range tests {
		cmp, ok := tt.a.Compare(tt.b)
		if ok != tt.wantOK || cmp != tt.cmp {
			t.Errorf("Compare(%v, %v) = %d, %v; want %d, %v", tt.a, tt.b, cmp, ok, tt.cmp, tt.wantOK)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewInt(-3), "-3"},
		{NewDouble(2.5), "2.5"},
		{NewDouble(1e21), "1000000000000000000000"},
		{NewString(`say "hi"`), `"say \"hi\""`},
		{NewBool(true), "true"},
		{Null, "null"},
	}
	for _, tt := range tests {
		if got := tt.v.Literal(); got != tt.want {
			t.Errorf("Literal(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	m := NewOrderedMap()
	m.Set("z", NewInt(1))
	m.Set("a", NewList([]Value{NewBool(true), Null, Undefined}))
	m.Set("s", NewString("x\"y"))

	b, err := json.Marshal(NewMap(m))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"z":1,"a":[true,null,null],"s":"x\"y"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestFromFastJSON(t *testing.T) {
	v, err := fastjson.Parse(`{"n": 3, "f": 1.5, "big": 1e300, "s": "hé", "b": false, "z": null, "l": [1, "a"], "o": {"k": "v", "a": 1}}`)
	if err != nil {
		t.Fatal(err)
	}
	got := FromFastJSON(v)
	if got.Type() != TypeMap {
		t.Fatalf("got %s, want map", got.Type())
	}
	m := got.AsMap()

	checks := map[string]Value{
		"n": NewInt(3),
		"f": NewDouble(1.5),
		"s": NewString("hé"),
		"b": NewBool(false),
		"z": Null,
		"l": NewList([]Value{NewInt(1), NewString("a")}),
	}
	for k, want := range checks {
		v, ok := m.Get(k)
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		if v.Type() != want.Type() || !v.Equal(want) {
			t.Errorf("%s = %s %v, want %s %v", k, v.Type(), v, want.Type(), want)
		}
	}
	if v, _ := m.Get("big"); v.Type() != TypeDouble {
		t.Errorf("big = %s, want double", v.Type())
	}

	obj, _ := m.Get("o")
	if keys := obj.AsMap().Keys(); strings.Join(keys, ",") != "k,a" {
		t.Errorf("nested keys = %v, want document order [k a]", keys)
	}
	keys := m.Keys()
	if keys[0] != "n" || keys[len(keys)-1] != "o" {
		t.Errorf("keys = %v, want document order", keys)
	}
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		in   interface{}
		want Value
	}{
		{nil, Null},
		{true, NewBool(true)},
		{7, NewInt(7)},
		{int64(-2), NewInt(-2)},
		{float64(4), NewInt(4)},
		{float64(4.5), NewDouble(4.5)},
		{float64(1 << 63), NewDouble(1 << 63)},
		{float64(-1 << 63), NewInt(math.MinInt64)},
		{float64(1 << 62), NewInt(1 << 62)},
		{json.Number("12"), NewInt(12)},
		{json.Number("1.25"), NewDouble(1.25)},
		{"x", NewString("x")},
		{[]interface{}{1, "a"}, NewList([]Value{NewInt(1), NewString("a")})},
	}
	for _, tt := range tests {
		got := FromGo(tt.in)
		if got.Type() != tt.want.Type() || !got.Equal(tt.want) {
			t.Errorf("FromGo(%#v) = %s %v, want %s %v", tt.in, got.Type(), got, tt.want.Type(), tt.want)
		}
	}

	m := FromGo(map[string]interface{}{"b": 1, "a": 2})
	if keys := m.AsMap().Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Errorf("map keys = %v, want sorted", keys)
	}
}

func TestRecordLookup(t *testing.T) {
	rec := RecordFromGo(map[string]interface{}{"x": 1, "z": nil})
	if v := rec.Lookup("x"); !v.Equal(NewInt(1)) {
		t.Errorf("x = %v", v)
	}
	if v := rec.Lookup("z"); !v.IsNull() {
		t.Errorf("z = %v, want null", v)
	}
	if v := rec.Lookup("missing"); !v.IsUndefined() {
		t.Errorf("missing = %v, want undefined", v)
	}
}

func TestRecordFromMap(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", NewInt(1))
	rec, err := RecordFromMap(NewMap(m))
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Lookup("a").Equal(NewInt(1)) {
		t.Errorf("a = %v", rec.Lookup("a"))
	}
	if _, err := RecordFromMap(NewInt(1)); err == nil {
		t.Error("expected error for non-map value")
	}
}

func TestQueryError(t *testing.T) {
	err := NewError(KindExpectedName, 1, "Expected name, got '%s'", "1")
	if got := err.Error(); got != "ExpectedName: Expected name, got '1' (at position 1)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrExpectedName) {
		t.Error("errors.Is should match the sentinel by kind")
	}
	if errors.Is(err, ErrWrongArity) {
		t.Error("errors.Is matched another kind")
	}

	wrapped := fmt.Errorf("query %q: %w", "(1)", err)
	if KindOf(wrapped) != KindExpectedName {
		t.Errorf("KindOf(wrapped) = %q", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf of a plain error should be empty")
	}

	if got := NewTypeError("bad").Error(); got != "TypeError: bad" {
		t.Errorf("Error() without position = %q", got)
	}
}

func TestIsParseKind(t *testing.T) {
	for _, k := range []ErrorKind{KindLexError, KindExpectedName, KindWrongArity, KindResourceLimit} {
		if !k.IsParseKind() {
			t.Errorf("%s should be a parse kind", k)
		}
	}
	for _, k := range []ErrorKind{KindNonBooleanOperand, KindNoSuchMethod, KindTypeError} {
		if k.IsParseKind() {
			t.Errorf("%s should not be a parse kind", k)
		}
	}
}
