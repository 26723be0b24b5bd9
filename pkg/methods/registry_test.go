package methods

import (
	"errors"
	"testing"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

func str(s string) types.Value { return types.NewString(s) }

func num(i int64) types.Value { return types.NewInt(i) }

func list(items ...types.Value) types.Value { return types.NewList(items) }

func call(t *testing.T, name string, target types.Value, args ...types.Value) types.Value {
	t.Helper()
	got, err := Default().Call(name, target, args)
	if err != nil {
		t.Fatalf("%s(%v, %v): %v", name, target, args, err)
	}
	return got
}

func TestLookupByType(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Lookup(types.TypeString, "includes"); !ok {
		t.Error("string includes not registered")
	}
	if _, ok := reg.Lookup(types.TypeList, "includes"); !ok {
		t.Error("list includes not registered")
	}
	if _, ok := reg.Lookup(types.TypeInt, "includes"); ok {
		t.Error("int includes should not exist")
	}
	if _, ok := reg.Lookup(types.TypeUndefined, "length"); ok {
		t.Error("undefined has no methods")
	}
}

func TestCallNoSuchMethod(t *testing.T) {
	_, err := Default().Call("frobnicate", str("x"), nil)
	if !errors.Is(err, types.ErrNoSuchMethod) {
		t.Fatalf("got %v, want NoSuchMethod", err)
	}
	_, err = Default().Call("toUpperCase", types.Null, nil)
	if !errors.Is(err, types.ErrNoSuchMethod) {
		t.Fatalf("got %v, want NoSuchMethod", err)
	}
}

func TestRegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(types.TypeString, "length", func(target types.Value, args []types.Value) (types.Value, error) {
		return num(-1), nil
	})
	got, err := reg.Call("length", str("abc"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != -1 {
		t.Errorf("got %v, want replacement result -1", got)
	}
	// The shared default registry is untouched.
	if got := call(t, "length", str("abc")); got.AsInt() != 3 {
		t.Errorf("default registry length = %v, want 3", got)
	}
}

func TestNames(t *testing.T) {
	names := NewRegistry().Names(types.TypeMap)
	if len(names) != 2 || names[0] != "get" || names[1] != "has" {
		t.Errorf("got %v, want [get has]", names)
	}
	if names := NewEmptyRegistry().Names(types.TypeString); len(names) != 0 {
		t.Errorf("empty registry has %v", names)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default returned different registries")
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		target types.Value
		args   []types.Value
	}{
		{"includes", str("abc"), nil},
		{"includes", str("abc"), []types.Value{num(1)}},
		{"substring", str("abc"), []types.Value{str("1")}},
		{"substring", str("abc"), []types.Value{num(1), num(2), num(3)}},
		{"toUpperCase", str("abc"), []types.Value{str("x")}},
		{"repeat", str("ab"), []types.Value{num(-1)}},
		{"repeat", str("ab"), []types.Value{num(1 << 62)}},
		{"repeat", str("ab"), []types.Value{types.NewDouble(1e300)}},
		{"matches", str("ab"), []types.Value{str("(")}},
		{"join", list(), []types.Value{num(1)}},
		{"toFixed", num(1), []types.Value{num(101)}},
		{"get", types.NewMap(types.NewOrderedMap()), []types.Value{num(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default().Call(tt.name, tt.target, tt.args)
			if !errors.Is(err, types.ErrTypeError) {
				t.Fatalf("got %v, want TypeError", err)
			}
		})
	}
}

func TestListMethods(t *testing.T) {
	l := list(str("a"), num(2), types.Null, str("d"))

	tests := []struct {
		name string
		args []types.Value
		want types.Value
	}{
		{"includes", []types.Value{str("a")}, types.NewBool(true)},
		{"includes", []types.Value{types.NewDouble(2)}, types.NewBool(true)},
		{"includes", []types.Value{str("z")}, types.NewBool(false)},
		{"indexOf", []types.Value{str("d")}, num(3)},
		{"indexOf", []types.Value{str("z")}, num(-1)},
		{"join", nil, str("a,2,,d")},
		{"join", []types.Value{str("-")}, str("a-2--d")},
		{"length", nil, num(4)},
		{"at", []types.Value{num(0)}, str("a")},
		{"at", []types.Value{num(-1)}, str("d")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := call(t, tt.name, l, tt.args...)
			if got.Type() != tt.want.Type() || !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := call(t, "at", l, num(10)); !got.IsUndefined() {
		t.Errorf("at out of range = %v, want undefined", got)
	}
}

func TestNumberMethods(t *testing.T) {
	tests := []struct {
		name   string
		target types.Value
		args   []types.Value
		want   string
	}{
		{"toString", num(42), nil, "42"},
		{"toString", types.NewDouble(2.5), nil, "2.5"},
		{"toFixed", types.NewDouble(3.14159), []types.Value{num(2)}, "3.14"},
		{"toFixed", num(7), []types.Value{num(1)}, "7.0"},
		{"toFixed", types.NewDouble(2.6), nil, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.want, func(t *testing.T) {
			got := call(t, tt.name, tt.target, tt.args...)
			if got.AsString() != tt.want {
				t.Errorf("got %q, want %q", got.AsString(), tt.want)
			}
		})
	}
}

func TestMapMethods(t *testing.T) {
	m := types.NewOrderedMap()
	m.Set("city", str("Oslo"))
	m.Set("zip", types.Null)
	target := types.NewMap(m)

	if got := call(t, "has", target, str("zip")); !got.AsBool() {
		t.Error("has zip = false, want true")
	}
	if got := call(t, "has", target, str("street")); got.AsBool() {
		t.Error("has street = true, want false")
	}
	if got := call(t, "get", target, str("city")); got.AsString() != "Oslo" {
		t.Errorf("get city = %v, want Oslo", got)
	}
	if got := call(t, "get", target, str("zip")); !got.IsNull() {
		t.Errorf("get zip = %v, want null", got)
	}
	if got := call(t, "get", target, str("street")); !got.IsUndefined() {
		t.Errorf("get street = %v, want undefined", got)
	}
}
