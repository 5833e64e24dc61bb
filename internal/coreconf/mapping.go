package coreconf

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mapping is an ordered string-keyed YAML mapping. Keys are unique and keep
// their insertion position so a loaded document serializes back in the same
// order it was written. Values are held as raw yaml nodes until a typed
// accessor asks for them, which keeps unrecognized keys round-tripping
// byte-for-byte.
type Mapping struct {
	keys  []string
	nodes map[string]*yaml.Node
}

func NewMapping() *Mapping {
	return &Mapping{nodes: map[string]*yaml.Node{}}
}

func (m *Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Mapping) Has(key string) bool {
	_, ok := m.nodes[key]
	return ok
}

func (m *Mapping) Get(key string) (*yaml.Node, bool) {
	n, ok := m.nodes[key]
	return n, ok
}

// Set upserts a value: a new key is appended, an existing key keeps its
// position and only the value is replaced. Arbitrary Go values are encoded
// through yaml.Node.
func (m *Mapping) Set(key string, v any) error {
	if n, ok := v.(*yaml.Node); ok {
		m.SetNode(key, n)
		return nil
	}
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	m.SetNode(key, &n)
	return nil
}

func (m *Mapping) SetNode(key string, n *yaml.Node) {
	if m.nodes == nil {
		m.nodes = map[string]*yaml.Node{}
	}
	if _, ok := m.nodes[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.nodes[key] = n
}

func (m *Mapping) Delete(key string) bool {
	if _, ok := m.nodes[key]; !ok {
		return false
	}
	delete(m.nodes, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// GetString returns the value for key when it is a string scalar.
func (m *Mapping) GetString(key string) (string, bool) {
	n, ok := m.nodes[key]
	if !ok || n.Kind != yaml.ScalarNode || n.Tag != "!!str" {
		return "", false
	}
	return n.Value, true
}

func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", nodeKindName(value.Kind))
	}
	m.keys = nil
	m.nodes = map[string]*yaml.Node{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("mapping key at line %d is not a scalar", keyNode.Line)
		}
		// Duplicate keys overwrite the value but keep the first position.
		m.SetNode(keyNode.Value, value.Content[i+1])
	}
	return nil
}

func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	node.Content = make([]*yaml.Node, 0, 2*len(m.keys))
	for _, k := range m.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			m.nodes[k],
		)
	}
	return node, nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
