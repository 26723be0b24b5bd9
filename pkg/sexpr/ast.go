package sexpr

import "github.com/lemonberrylabs/sexpq/pkg/types"

// Node is the interface for all expression AST nodes.
type Node interface {
	nodeType() string
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota // =
	OpGt                  // >
	OpLt                  // <
	OpGe                  // >=
	OpLe                  // <=
	OpNe                  // !=
)

var compareOps = map[string]CompareOp{
	"=":  OpEq,
	">":  OpGt,
	"<":  OpLt,
	">=": OpGe,
	"<=": OpLe,
	"!=": OpNe,
}

// String returns the operator symbol as written in a query.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpNe:
		return "!="
	default:
		return "?"
	}
}

// ComparisonNode represents (op left right).
type ComparisonNode struct {
	Op    CompareOp
	Left  Node
	Right Node
}

func (n *ComparisonNode) nodeType() string { return "Comparison" }

// ConjunctionNode represents (and term...).
type ConjunctionNode struct {
	Terms []Node
}

func (n *ConjunctionNode) nodeType() string { return "Conjunction" }

// DisjunctionNode represents (or term...).
type DisjunctionNode struct {
	Terms []Node
}

func (n *DisjunctionNode) nodeType() string { return "Disjunction" }

// NegationNode represents (not term).
type NegationNode struct {
	Term Node
}

func (n *NegationNode) nodeType() string { return "Negation" }

// MethodCallNode represents (name target arg...). Terms[0] is the target.
type MethodCallNode struct {
	Name  string
	Terms []Node
}

func (n *MethodCallNode) nodeType() string { return "MethodCall" }

// VariableNode is a record field reference.
type VariableNode struct {
	Name string
}

func (n *VariableNode) nodeType() string { return "Variable" }

// ConstantNode is a string, number, boolean or null literal.
type ConstantNode struct {
	Value types.Value
}

func (n *ConstantNode) nodeType() string { return "Constant" }

// NodeType returns the variant name of n, e.g. "Comparison".
func NodeType(n Node) string {
	return n.nodeType()
}
