// Package config models the bot's main configuration document: an ordered
// YAML mapping that carries the allow-lists next to unrelated scalar settings.
package config

import (
	"bytes"
	"fmt"
	"strings"

	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"gopkg.in/yaml.v3"
)

// Document is an ordered key/value mapping backed by a yaml.v3 node tree, so
// keys the gatekeeper does not know about survive a load/save cycle untouched.
type Document struct {
	root *yaml.Node
}

func NewDocument() *Document {
	return &Document{root: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Parse decodes raw YAML. Empty input yields an empty document.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, pkgError.ParseError(fmt.Sprintf("invalid configuration document: %v", err))
	}

	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewDocument(), nil
		}
		root = root.Content[0]
	}

	switch {
	case root.Kind == 0:
		return NewDocument(), nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return NewDocument(), nil
	case root.Kind != yaml.MappingNode:
		return nil, pkgError.ParseError("configuration document must be a mapping")
	}
	return &Document{root: root}, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.root.Content)/2)
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		keys = append(keys, d.root.Content[i].Value)
	}
	return keys
}

func (d *Document) Has(key string) bool {
	return d.lookup(key) != nil
}

// String returns the scalar value of key, or "" when absent or not a scalar.
func (d *Document) String(key string) string {
	value := d.lookup(key)
	if value == nil || value.Kind != yaml.ScalarNode || value.ShortTag() == "!!null" {
		return ""
	}
	return strings.TrimSpace(value.Value)
}

// Bool reports a boolean setting. Missing or malformed values are false.
func (d *Document) Bool(key string) bool {
	value := d.lookup(key)
	if value == nil {
		return false
	}
	var out bool
	if err := value.Decode(&out); err != nil {
		return false
	}
	return out
}

// Decode unmarshals the value stored under key into out. Absent keys and
// null values leave out untouched.
func (d *Document) Decode(key string, out any) error {
	value := d.lookup(key)
	if value == nil || value.ShortTag() == "!!null" {
		return nil
	}
	if err := value.Decode(out); err != nil {
		return pkgError.ParseError(fmt.Sprintf("field %s: %v", key, err))
	}
	return nil
}

// Set replaces the value stored under key, appending the key when new.
// Comments attached to an existing key are kept.
func (d *Document) Set(key string, v any) error {
	var value yaml.Node
	if err := value.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			d.root.Content[i+1] = &value
			return nil
		}
	}
	d.root.Content = append(d.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&value,
	)
	return nil
}

// Clone returns a deep copy; transitions mutate the copy and hand it back.
func (d *Document) Clone() *Document {
	return &Document{root: cloneNode(d.root)}
}

// Marshal renders the document one top-level key at a time: the key's comment
// block first, then the key, with a blank line between entries. Top-level
// strings are single quoted and nested blocks indented by two spaces.
func (d *Document) Marshal() ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		key := cloneNode(d.root.Content[i])
		value := cloneNode(d.root.Content[i+1])
		if block := CommentBlock(key.Value); block != "" {
			key.HeadComment = block
		}
		if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!str" {
			value.Style = yaml.SingleQuotedStyle
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		pair := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{key, value}}
		if err := enc.Encode(pair); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", key.Value, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", key.Value, err)
		}

		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.Write(buf.Bytes())
	}
	return out.Bytes(), nil
}

func (d *Document) lookup(key string) *yaml.Node {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			return d.root.Content[i+1]
		}
	}
	return nil
}

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}
	return &c
}

func commentLines(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}
