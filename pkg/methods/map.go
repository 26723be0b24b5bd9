package methods

import (
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// registerMap registers methods for nested objects in records.
func (r *Registry) registerMap() {
	r.Register(types.TypeMap, "has", mapHas)
	r.Register(types.TypeMap, "get", mapGet)
}

func mapHas(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("has", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	k, err := stringArg("has", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	_, ok := target.AsMap().Get(k)
	return types.NewBool(ok), nil
}

// mapGet returns the value for the key, or undefined when absent, so that
// nested fields behave like top-level record fields.
func mapGet(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("get", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	k, err := stringArg("get", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	v, ok := target.AsMap().Get(k)
	if !ok {
		return types.Undefined, nil
	}
	return v, nil
}
