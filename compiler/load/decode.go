package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// node is a decoded configuration value whose object keys keep their
// declared order.
type node interface {
	// fields returns the members of an object in declared order.
	fields() ([]field, error)
	// decode stores the value in v.
	decode(v any) error
}

type field struct {
	key   string
	value node
}

// jsonNode is a raw JSON value.
type jsonNode json.RawMessage

func (n jsonNode) decode(v any) error {
	return json.Unmarshal(n, v)
}

func (n jsonNode) fields() ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(n))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}
	var fs []field
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		fs = append(fs, field{key: key, value: jsonNode(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return fs, nil
}

// yamlNode is a YAML value node.
type yamlNode struct{ n *yaml.Node }

func (n yamlNode) decode(v any) error {
	return n.n.Decode(v)
}

func (n yamlNode) fields() ([]field, error) {
	m := n.n
	if m.Kind == yaml.AliasNode {
		m = m.Alias
	}
	if m.Kind != yaml.MappingNode {
		return nil, errNotObject
	}
	fs := make([]field, 0, len(m.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		fs = append(fs, field{key: key, value: yamlNode{m.Content[i+1]}})
	}
	return fs, nil
}

var errNotObject = errors.New("expected an object")

// parseNode returns the root node of data in the given format.
func parseNode(data []byte, format Format) (node, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			// Decode again to surface the syntax error position.
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
		}
		return jsonNode(bytes.TrimSpace(data)), nil
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			return nil, errors.New("empty document")
		}
		return yamlNode{doc.Content[0]}, nil
	default:
		return nil, fmt.Errorf("unknown format %d", format)
	}
}
