package graph

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Attributes holds the named attributes of one node or edge in insertion
// order. Overwriting an existing name keeps its original position.
type Attributes struct {
	names  []string
	values map[string]Value
}

func NewAttributes(attrs ...Attr) *Attributes {
	a := &Attributes{values: make(map[string]Value, len(attrs))}
	a.Merge(attrs)
	return a
}

func (a *Attributes) Set(name string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = v
}

func (a *Attributes) Get(name string) (Value, error) {
	v, ok := a.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	return v, nil
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a *Attributes) Len() int { return len(a.names) }

// All returns a copy of the attributes in insertion order.
func (a *Attributes) All() []Attr {
	out := make([]Attr, 0, len(a.names))
	for _, name := range a.names {
		out = append(out, Attr{Name: name, Value: a.values[name]})
	}
	return out
}

// Merge sets every attr in order; later values win on name collision.
func (a *Attributes) Merge(attrs []Attr) {
	for _, attr := range attrs {
		a.Set(attr.Name, attr.Value)
	}
}

func (a *Attributes) Clone() *Attributes {
	return NewAttributes(a.All()...)
}

// Equal reports whether both stores hold the same names and values,
// regardless of order.
func (a *Attributes) Equal(o *Attributes) bool {
	if a.Len() != o.Len() {
		return false
	}
	for name, v := range a.values {
		ov, ok := o.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// AttrList is the serialized form of an attribute store: a flat object
// whose key order follows the list order.
type AttrList []Attr

func (l AttrList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *AttrList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attrs must be an object")
	}

	var out AttrList
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attrs key must be a string")
		}
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		if _, nested := tok.(json.Delim); nested {
			return fmt.Errorf("attribute %q: nested values are not supported", name)
		}
		v, err := ValueOf(tok)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		out = append(out, Attr{Name: name, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

func (l AttrList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, attr := range l {
		val := &yaml.Node{Kind: yaml.ScalarNode, Value: attr.Value.String()}
		switch attr.Value.Kind() {
		case KindString:
			val.Tag = "!!str"
		case KindNumber:
			if !attr.Value.IsFinite() {
				return nil, fmt.Errorf("attribute %q: cannot marshal non-finite number %s", attr.Name, attr.Value)
			}
		case KindBool:
		default:
			return nil, fmt.Errorf("attribute %q: cannot marshal invalid attribute value", attr.Name)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Name},
			val,
		)
	}
	return node, nil
}

func (l *AttrList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attrs must be a mapping", node.Line)
	}
	out := make(AttrList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q: nested values are not supported", val.Line, key.Value)
		}
		var raw any
		if err := val.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: attribute %q: %w", val.Line, key.Value, err)
		}
		v, err := ValueOf(raw)
		if err != nil {
			return fmt.Errorf("line %d: attribute %q: %w", val.Line, key.Value, err)
		}
		out = append(out, Attr{Name: key.Value, Value: v})
	}
	*l = out
	return nil
}
