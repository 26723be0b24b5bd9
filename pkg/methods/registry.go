// Package methods implements the capabilities a query can invoke on values
// with a method call such as (startsWith name "Jo"). Methods are resolved by
// the target's runtime type and the method name.
package methods

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// Method is a capability invoked on target with already-evaluated arguments.
type Method func(target types.Value, args []types.Value) (types.Value, error)

type key struct {
	typ  types.ValueType
	name string
}

// Registry maps (value type, method name) to a Method. A Registry must not
// be modified once it is shared between goroutines.
type Registry struct {
	methods map[key]Method
}

// NewRegistry creates a registry with all built-in methods registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.registerString()
	r.registerList()
	r.registerNumber()
	r.registerMap()
	return r
}

// NewEmptyRegistry creates a registry with no methods.
func NewEmptyRegistry() *Registry {
	return &Registry{methods: make(map[key]Method)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns a shared registry with the built-in methods.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a method for one value type, replacing any existing one.
func (r *Registry) Register(typ types.ValueType, name string, fn Method) {
	r.methods[key{typ: typ, name: name}] = fn
}

// Lookup returns the method called name for values of type typ.
func (r *Registry) Lookup(typ types.ValueType, name string) (Method, bool) {
	fn, ok := r.methods[key{typ: typ, name: name}]
	return fn, ok
}

// Call invokes name on target, failing with NoSuchMethod when target's type
// has no such method.
func (r *Registry) Call(name string, target types.Value, args []types.Value) (types.Value, error) {
	fn, ok := r.Lookup(target.Type(), name)
	if !ok {
		return types.Undefined, types.NewNoSuchMethodError(name, target)
	}
	return fn(target, args)
}

// Names returns the sorted method names registered for typ.
func (r *Registry) Names(typ types.ValueType) []string {
	var names []string
	for k := range r.methods {
		if k.typ == typ {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// requireArgs checks that the number of args is in range.
func requireArgs(name string, args []types.Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return types.NewTypeError(fmt.Sprintf("%s expects %d argument(s), got %d", name, min, len(args)))
		}
		return types.NewTypeError(fmt.Sprintf("%s expects %d-%d arguments, got %d", name, min, max, len(args)))
	}
	return nil
}

// stringArg returns args[i] as a string.
func stringArg(name string, args []types.Value, i int) (string, error) {
	if args[i].Type() != types.TypeString {
		return "", types.NewTypeError(fmt.Sprintf("%s: argument %d must be a string, got %s", name, i+1, args[i].Type()))
	}
	return args[i].AsString(), nil
}

// intArg returns args[i] as an integer. Doubles are truncated and clamped
// to the int range; NaN is 0.
func intArg(name string, args []types.Value, i int) (int, error) {
	switch args[i].Type() {
	case types.TypeInt:
		return int(args[i].AsInt()), nil
	case types.TypeDouble:
		return doubleToInt(args[i].AsDouble()), nil
	}
	return 0, types.NewTypeError(fmt.Sprintf("%s: argument %d must be a number, got %s", name, i+1, args[i].Type()))
}

func doubleToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}
