package sexpr

import (
	"strings"
)

// Format renders node in canonical query syntax: single spaces, no
// redundant whitespace, strings re-quoted as JSON. Parse(Format(n)) yields a
// tree equal to n.
func Format(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node)
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *ConstantNode:
		sb.WriteString(n.Value.Literal())
	case *VariableNode:
		sb.WriteString(n.Name)
	case *ComparisonNode:
		writeList(sb, n.Op.String(), n.Left, n.Right)
	case *ConjunctionNode:
		writeList(sb, "and", n.Terms...)
	case *DisjunctionNode:
		writeList(sb, "or", n.Terms...)
	case *NegationNode:
		writeList(sb, "not", n.Term)
	case *MethodCallNode:
		writeList(sb, n.Name, n.Terms...)
	}
}

func writeList(sb *strings.Builder, head string, terms ...Node) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, term := range terms {
		sb.WriteByte(' ')
		writeNode(sb, term)
	}
	sb.WriteByte(')')
}

// Tree converts node into plain maps and slices for JSON encoding, e.g.
// {"type": "Comparison", "op": ">", "terms": [...]}.
func Tree(node Node) map[string]interface{} {
	switch n := node.(type) {
	case *ConstantNode:
		return map[string]interface{}{"type": n.nodeType(), "value": n.Value.ToGoValue()}
	case *VariableNode:
		return map[string]interface{}{"type": n.nodeType(), "name": n.Name}
	case *ComparisonNode:
		return map[string]interface{}{"type": n.nodeType(), "op": n.Op.String(), "terms": trees(n.Left, n.Right)}
	case *ConjunctionNode:
		return map[string]interface{}{"type": n.nodeType(), "terms": trees(n.Terms...)}
	case *DisjunctionNode:
		return map[string]interface{}{"type": n.nodeType(), "terms": trees(n.Terms...)}
	case *NegationNode:
		return map[string]interface{}{"type": n.nodeType(), "terms": trees(n.Term)}
	case *MethodCallNode:
		return map[string]interface{}{"type": n.nodeType(), "name": n.Name, "terms": trees(n.Terms...)}
	}
	return nil
}

func trees(nodes ...Node) []interface{} {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = Tree(n)
	}
	return out
}
