package serial

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlProperty is a Property backed by a yaml.v3 node tree
type yamlProperty struct {
	node *yaml.Node
	path Path
}

// FromNode wraps a parsed YAML node. Document nodes are unwrapped to their
// single root value.
func FromNode(node *yaml.Node) Property {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	return &yamlProperty{node: node, path: Root()}
}

// Parse decodes a YAML body into a Property tree.
func Parse(data []byte) (Property, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse serialized body: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("empty serialized body")
	}
	return FromNode(&doc), nil
}

func (p *yamlProperty) resolved() *yaml.Node {
	n := p.node
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (p *yamlProperty) FindChild(name string) (Property, bool) {
	n := p.resolved()
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return &yamlProperty{node: n.Content[i+1], path: p.path.Field(name)}, true
		}
	}
	return nil, false
}

func (p *yamlProperty) Index(i int) (Property, bool) {
	n := p.resolved()
	if n == nil || n.Kind != yaml.SequenceNode || i < 0 || i >= len(n.Content) {
		return nil, false
	}
	return &yamlProperty{node: n.Content[i], path: p.path.Elem(i)}, true
}

func (p *yamlProperty) Len() int {
	n := p.resolved()
	if n == nil || n.Kind != yaml.SequenceNode {
		return 0
	}
	return len(n.Content)
}

func (p *yamlProperty) scalar() (string, error) {
	n := p.resolved()
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s: %w", p.path, ErrNotScalar)
	}
	return strings.TrimSpace(n.Value), nil
}

func (p *yamlProperty) IntValue() (int64, error) {
	s, err := p.scalar()
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: int %q", p.path, ErrInvalidLeaf, s)
	}
	return v, nil
}

func (p *yamlProperty) FloatValue() (float64, error) {
	s, err := p.scalar()
	if err != nil {
		return 0, err
	}
	switch s {
	case "":
		return 0, nil
	case "Infinity":
		s = "+Inf"
	case "-Infinity":
		s = "-Inf"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: float %q", p.path, ErrInvalidLeaf, s)
	}
	return v, nil
}

func (p *yamlProperty) StringValue() (string, error) {
	n := p.resolved()
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s: %w", p.path, ErrNotScalar)
	}
	// keep surrounding whitespace, it is part of the stored string
	return n.Value, nil
}

// BoolValue accepts Unity's 0/1 encoding as well as YAML booleans
func (p *yamlProperty) BoolValue() (bool, error) {
	s, err := p.scalar()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("%s: %w: bool %q", p.path, ErrInvalidLeaf, s)
	}
}

func (p *yamlProperty) ObjectRefValue() (ObjectRef, error) {
	n := p.resolved()
	if n == nil || n.Kind != yaml.MappingNode {
		return ObjectRef{}, fmt.Errorf("%s: %w", p.path, ErrNotRef)
	}

	var ref ObjectRef
	fileID, ok := p.FindChild("fileID")
	if !ok {
		return ObjectRef{}, fmt.Errorf("%s: %w: missing fileID", p.path, ErrNotRef)
	}
	id, err := fileID.IntValue()
	if err != nil {
		return ObjectRef{}, err
	}
	ref.FileID = id

	if guid, ok := p.FindChild("guid"); ok {
		if ref.GUID, err = guid.StringValue(); err != nil {
			return ObjectRef{}, err
		}
	}
	if typ, ok := p.FindChild("type"); ok {
		t, err := typ.IntValue()
		if err != nil {
			return ObjectRef{}, err
		}
		ref.Type = int(t)
	}
	return ref, nil
}

func (p *yamlProperty) EnumValueIndex() (int, error) {
	v, err := p.IntValue()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (p *yamlProperty) Path() Path {
	return p.path
}
