package records

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// yamlReader walks a YAML stream. Each document is either one record
// (a mapping) or a sequence of records.
type yamlReader struct {
	src     io.Closer
	decoder *yaml.Decoder
	pending []*yaml.Node
	doc     int
	index   int
}

func newYAMLReader(src io.ReadCloser) *yamlReader {
	return &yamlReader{src: src, decoder: yaml.NewDecoder(src)}
}

func (r *yamlReader) Next() (types.Record, error) {
	for len(r.pending) == 0 {
		var doc yaml.Node
		if err := r.decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		r.doc++
		r.index = 0
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		if root.Kind == yaml.SequenceNode {
			r.pending = root.Content
		} else {
			r.pending = []*yaml.Node{root}
		}
	}

	node := r.pending[0]
	r.pending = r.pending[1:]
	r.index++
	conv := &nodeConverter{}
	v, err := conv.value(node)
	if err != nil {
		return nil, fmt.Errorf("document %d, record %d: %w", r.doc, r.index, err)
	}
	return toRecord(v, fmt.Sprintf("document %d, record %d", r.doc, r.index))
}

func (r *yamlReader) Close() error {
	return r.src.Close()
}

// maxYAMLNodes bounds the nodes converted for one record, counting every
// alias expansion.
const maxYAMLNodes = 1 << 20

// nodeConverter turns a yaml.Node into a Value, keeping mapping key order.
type nodeConverter struct {
	nodes int
}

func (c *nodeConverter) value(node *yaml.Node) (types.Value, error) {
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return types.Undefined, fmt.Errorf("record expands to more than %d YAML nodes", maxYAMLNodes)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return scalarToValue(node)
	case yaml.SequenceNode:
		items := make([]types.Value, len(node.Content))
		for i, item := range node.Content {
			v, err := c.value(item)
			if err != nil {
				return types.Undefined, err
			}
			items[i] = v
		}
		return types.NewList(items), nil
	case yaml.MappingNode:
		m := types.NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := c.value(node.Content[i+1])
			if err != nil {
				return types.Undefined, err
			}
			m.Set(node.Content[i].Value, v)
		}
		return types.NewMap(m), nil
	case yaml.AliasNode:
		return c.value(node.Alias)
	}
	return types.Null, nil
}

// scalarToValue uses the resolved YAML tag, so untagged scalars such as
// 42, 2.5, true and ~ get their natural types.
func scalarToValue(node *yaml.Node) (types.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return types.Null, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return types.Undefined, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return types.NewBool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return types.NewInt(i), nil
		}
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return types.Undefined, fmt.Errorf("line %d: invalid integer %q", node.Line, node.Value)
		}
		return types.NewDouble(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return types.Undefined, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return types.NewDouble(f), nil
	}
	return types.NewString(node.Value), nil
}
