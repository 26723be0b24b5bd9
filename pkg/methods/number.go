package methods

import (
	"fmt"
	"strconv"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// registerNumber registers methods shared by int and double values.
func (r *Registry) registerNumber() {
	for _, typ := range []types.ValueType{types.TypeInt, types.TypeDouble} {
		r.Register(typ, "toString", numToString)
		r.Register(typ, "toFixed", numToFixed)
	}
}

func numToString(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("toString", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(target.String()), nil
}

// numToFixed formats the number with the given count of decimals (0-100).
func numToFixed(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("toFixed", args, 0, 1); err != nil {
		return types.Undefined, err
	}
	digits := 0
	if len(args) == 1 {
		d, err := intArg("toFixed", args, 0)
		if err != nil {
			return types.Undefined, err
		}
		if d < 0 || d > 100 {
			return types.Undefined, types.NewTypeError(fmt.Sprintf("toFixed: digits must be between 0 and 100, got %d", d))
		}
		digits = d
	}
	f, _ := target.AsNumber()
	return types.NewString(strconv.FormatFloat(f, 'f', digits, 64)), nil
}
