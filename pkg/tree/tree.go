package tree

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrParse is returned when a document cannot be decoded as YAML.
var ErrParse = errors.New("failed to parse YAML document")

// Kind classifies a Value.
type Kind int

const (
	// KindMissing is a value that is absent from the document.
	KindMissing Kind = iota
	// KindNull is an explicit YAML null.
	KindNull
	// KindScalar is a string, number or boolean.
	KindScalar
	// KindList is an ordered sequence.
	KindList
	// KindMap is an ordered mapping.
	KindMap
)

// Value is a read-only view over a YAML node. The zero Value is missing, and
// every accessor on a missing or mismatched value returns another missing
// value or the caller's default, so arbitrarily deep lookups never fail.
type Value struct {
	node *yaml.Node
}

// Parse decodes a YAML document. Empty input yields a missing Value and no error.
func Parse(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return Value{}, nil
		}
		return wrap(doc.Content[0]), nil
	}
	return wrap(&doc), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// FromObject encodes a decoded Go value (for example the content of an
// unstructured Kubernetes object) into a Value.
func FromObject(obj interface{}) (Value, error) {
	var node yaml.Node
	if err := node.Encode(obj); err != nil {
		return Value{}, fmt.Errorf("failed to encode object: %w", err)
	}
	return wrap(&node), nil
}

func wrap(n *yaml.Node) Value {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return Value{node: n}
}

// Kind reports what the value holds.
func (v Value) Kind() Kind {
	if v.node == nil {
		return KindMissing
	}
	switch v.node.Kind {
	case yaml.MappingNode:
		return KindMap
	case yaml.SequenceNode:
		return KindList
	case yaml.ScalarNode:
		if v.node.Tag == "!!null" {
			return KindNull
		}
		return KindScalar
	default:
		return KindMissing
	}
}

// Exists reports whether the value is present and not null.
func (v Value) Exists() bool {
	k := v.Kind()
	return k != KindMissing && k != KindNull
}

// Key returns the value stored under key when v is a mapping.
func (v Value) Key(key string) Value {
	if v.Kind() != KindMap {
		return Value{}
	}
	content := v.node.Content
	for i := 0; i+1 < len(content); i += 2 {
		if content[i].Value == key {
			return wrap(content[i+1])
		}
	}
	return Value{}
}

// Get descends through a chain of mapping keys.
func (v Value) Get(path ...string) Value {
	cur := v
	for _, key := range path {
		cur = cur.Key(key)
		if cur.node == nil {
			return Value{}
		}
	}
	return cur
}

// Index returns the i-th item of a list.
func (v Value) Index(i int) Value {
	if v.Kind() != KindList || i < 0 || i >= len(v.node.Content) {
		return Value{}
	}
	return wrap(v.node.Content[i])
}

// Items returns the items of a list in declaration order, or nil.
func (v Value) Items() []Value {
	if v.Kind() != KindList {
		return nil
	}
	items := make([]Value, 0, len(v.node.Content))
	for _, n := range v.node.Content {
		items = append(items, wrap(n))
	}
	return items
}

// Len is the number of list items or mapping entries.
func (v Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.node.Content)
	case KindMap:
		return len(v.node.Content) / 2
	default:
		return 0
	}
}

// String returns the scalar text, or def for anything that is not a non-null scalar.
func (v Value) String(def string) string {
	if v.Kind() != KindScalar {
		return def
	}
	return v.node.Value
}

// Find returns the first list item whose field equals want. Later matches
// are ignored.
func (v Value) Find(field, want string) Value {
	for _, item := range v.Items() {
		if got := item.Key(field); got.Kind() == KindScalar && got.node.Value == want {
			return item
		}
	}
	return Value{}
}

// Strings collects field from every list item, skipping items where it is
// absent or empty.
func (v Value) Strings(field string) []string {
	var out []string
	for _, item := range v.Items() {
		if s := item.Key(field).String(""); s != "" {
			out = append(out, s)
		}
	}
	return out
}
