package sexpr

import (
	"fmt"

	"github.com/lemonberrylabs/sexpq/pkg/methods"
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// Scope provides field lookup and method dispatch for expression evaluation.
type Scope interface {
	// GetVariable returns the named record field, or types.Undefined.
	GetVariable(name string) types.Value

	// LookupMethod resolves the named method for target's type.
	LookupMethod(name string, target types.Value) (methods.Method, bool)
}

// RecordScope evaluates against a single record using a method registry.
type RecordScope struct {
	Record  types.Record
	Methods *methods.Registry
}

// NewRecordScope creates a scope over rec. A nil registry means
// methods.Default().
func NewRecordScope(rec types.Record, reg *methods.Registry) *RecordScope {
	if reg == nil {
		reg = methods.Default()
	}
	return &RecordScope{Record: rec, Methods: reg}
}

// GetVariable implements Scope.
func (s *RecordScope) GetVariable(name string) types.Value {
	return s.Record.Lookup(name)
}

// LookupMethod implements Scope.
func (s *RecordScope) LookupMethod(name string, target types.Value) (methods.Method, bool) {
	return s.Methods.Lookup(target.Type(), name)
}

// EvaluateRecord evaluates node against rec with the default method registry.
func EvaluateRecord(node Node, rec types.Record) (types.Value, error) {
	return Evaluate(node, NewRecordScope(rec, nil))
}

// Evaluate reduces node to a value within the given scope.
func Evaluate(node Node, scope Scope) (types.Value, error) {
	switch n := node.(type) {
	case *ConstantNode:
		return n.Value, nil
	case *VariableNode:
		return scope.GetVariable(n.Name), nil
	case *ComparisonNode:
		return evalComparison(n, scope)
	case *ConjunctionNode:
		return evalLogical("and", n.Terms, scope)
	case *DisjunctionNode:
		return evalLogical("or", n.Terms, scope)
	case *NegationNode:
		return evalNegation(n, scope)
	case *MethodCallNode:
		return evalMethodCall(n, scope)
	default:
		return types.Undefined, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func evalComparison(n *ComparisonNode, scope Scope) (types.Value, error) {
	left, err := Evaluate(n.Left, scope)
	if err != nil {
		return types.Undefined, err
	}
	right, err := Evaluate(n.Right, scope)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewBool(compare(n.Op, left, right)), nil
}

// compare applies op. Ordering between values that are not both numbers or
// both strings is false for every operator.
func compare(op CompareOp, left, right types.Value) bool {
	switch op {
	case OpEq:
		return left.Equal(right)
	case OpNe:
		return !left.Equal(right)
	}

	cmp, ok := left.Compare(right)
	if !ok {
		return false
	}
	switch op {
	case OpGt:
		return cmp > 0
	case OpLt:
		return cmp < 0
	case OpGe:
		return cmp >= 0
	case OpLe:
		return cmp <= 0
	}
	return false
}

// evalLogical evaluates every term before checking types, so a non-boolean
// term is reported even when an earlier term already decides the result.
func evalLogical(op string, terms []Node, scope Scope) (types.Value, error) {
	results := make([]types.Value, len(terms))
	for i, term := range terms {
		val, err := Evaluate(term, scope)
		if err != nil {
			return types.Undefined, err
		}
		results[i] = val
	}

	acc := op == "and"
	for _, val := range results {
		if val.Type() != types.TypeBool {
			return types.Undefined, types.NewNonBooleanOperandError(op, val)
		}
		if op == "and" {
			acc = acc && val.AsBool()
		} else {
			acc = acc || val.AsBool()
		}
	}
	return types.NewBool(acc), nil
}

func evalNegation(n *NegationNode, scope Scope) (types.Value, error) {
	val, err := Evaluate(n.Term, scope)
	if err != nil {
		return types.Undefined, err
	}
	if val.Type() != types.TypeBool {
		return types.Undefined, types.NewNonBooleanOperandError("not", val)
	}
	return types.NewBool(!val.AsBool()), nil
}

func evalMethodCall(n *MethodCallNode, scope Scope) (types.Value, error) {
	target, err := Evaluate(n.Terms[0], scope)
	if err != nil {
		return types.Undefined, err
	}
	method, ok := scope.LookupMethod(n.Name, target)
	if !ok {
		return types.Undefined, types.NewNoSuchMethodError(n.Name, target)
	}

	args := make([]types.Value, len(n.Terms)-1)
	for i, arg := range n.Terms[1:] {
		val, err := Evaluate(arg, scope)
		if err != nil {
			return types.Undefined, err
		}
		args[i] = val
	}

	return method(target, args)
}
