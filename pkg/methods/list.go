package methods

import (
	"strings"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// registerList registers methods on list values.
func (r *Registry) registerList() {
	r.Register(types.TypeList, "includes", listIncludes)
	r.Register(types.TypeList, "indexOf", listIndexOf)
	r.Register(types.TypeList, "join", listJoin)
	r.Register(types.TypeList, "length", listLength)
	r.Register(types.TypeList, "at", listAt)
}

func listIncludes(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("includes", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	return types.NewBool(indexOf(target.AsList(), args[0]) >= 0), nil
}

func listIndexOf(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("indexOf", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	return types.NewInt(int64(indexOf(target.AsList(), args[0]))), nil
}

func indexOf(list []types.Value, v types.Value) int {
	for i, item := range list {
		if item.Equal(v) {
			return i
		}
	}
	return -1
}

func listJoin(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("join", args, 0, 1); err != nil {
		return types.Undefined, err
	}
	sep := ","
	if len(args) == 1 {
		s, err := stringArg("join", args, 0)
		if err != nil {
			return types.Undefined, err
		}
		sep = s
	}
	items := target.AsList()
	parts := make([]string, len(items))
	for i, item := range items {
		if item.IsNull() || item.IsUndefined() {
			continue
		}
		parts[i] = item.String()
	}
	return types.NewString(strings.Join(parts, sep)), nil
}

func listLength(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("length", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewInt(int64(len(target.AsList()))), nil
}

// listAt returns the element at the index, counting from the end when it is
// negative, or undefined when it is out of range.
func listAt(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("at", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	i, err := intArg("at", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	items := target.AsList()
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return types.Undefined, nil
	}
	return items[i], nil
}
