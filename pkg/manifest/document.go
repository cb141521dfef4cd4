package manifest

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultIndent = 2

// Document is a YAML file held as a node tree so that comments and key order
// of nodes we do not touch survive a rewrite.
type Document struct {
	node   yaml.Node
	indent int
}

// Parse builds a Document from YAML text. Empty input yields an empty mapping.
func Parse(data []byte) (*Document, error) {
	d := &Document{indent: detectIndent(data)}
	if err := yaml.Unmarshal(data, &d.node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if d.node.Kind == 0 {
		d.node = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(d.node.Content) == 0 {
		d.node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	return d, nil
}

// Root returns the top-level node of the document.
func (d *Document) Root() *yaml.Node {
	return d.node.Content[0]
}

// Bytes serializes the document using the indentation detected on parse.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(d.indent)
	if err := enc.Encode(&d.node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Lookup returns the value node for key in mapping m, or nil.
func Lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Set replaces the value for key in mapping m, appending the key when absent.
// The key node (and its comments) is kept when the key already exists.
func Set(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// Keys returns the keys of mapping m in document order.
func Keys(m *yaml.Node) []string {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// IsNull reports whether n is an explicit or implicit YAML null.
func IsNull(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// StringSequence builds a block sequence of plain strings. An empty slice
// becomes a flow sequence so it renders as [].
func StringSequence(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(values) == 0 {
		seq.Style = yaml.FlowStyle
		return seq
	}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	return seq
}

// detectIndent returns the width of the first indented content line, which
// for a block-style manifest is the nesting step the author used.
func detectIndent(data []byte) int {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		width := len(line) - len(trimmed)
		if width == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") && width < 2 {
			continue
		}
		if width >= 2 && width <= 8 {
			return width
		}
		return defaultIndent
	}
	return defaultIndent
}
