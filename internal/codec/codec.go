// Package codec normalizes configuration documents to the generic tree
// the merge engine operates on, and serializes merged trees back out.
// JSON (with comments and trailing commas), YAML, and TOML are
// supported; the format is chosen by file extension or declared per
// target.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/confsync/internal/tree"
)

// Format identifies a supported document format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat validates a format string from a configuration file.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case JSON:
		return JSON, nil
	case YAML, "yml":
		return YAML, nil
	case TOML:
		return TOML, nil
	}
	return "", fmt.Errorf("unknown format %q — must be one of: json, yaml, toml", s)
}

// Detect picks a format from a file path's extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("cannot detect format of %s — add an explicit 'format' to the target", path)
}

// Decode parses data into a configuration tree. Empty input decodes to
// an empty object so that a blank user file behaves like a fresh one.
func Decode(format Format, data []byte) (tree.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.Object{}, nil
	}

	var raw any
	switch format {
	case JSON:
		// jsonc strips comments and trailing commas, so hand-edited
		// settings files survive the round through encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case TOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
		raw = m
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	n, err := tree.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	return n, nil
}

// Encode serializes a tree deterministically: identical trees always
// produce identical bytes, with object keys sorted in every format.
func Encode(format Format, n tree.Node) ([]byte, error) {
	switch format {
	case JSON:
		data, err := json.MarshalIndent(tree.ToAny(n), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(yamlNode(n)); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	case TOML:
		obj, ok := n.(tree.Object)
		if !ok {
			return nil, fmt.Errorf("toml documents must be objects at the top level, got %T", n)
		}
		data, err := toml.Marshal(tree.ToAny(obj))
		if err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// yamlNode builds an explicit yaml.Node so map keys are emitted in
// sorted order; yaml.Marshal on plain maps does not guarantee that.
func yamlNode(n tree.Node) *yaml.Node {
	switch v := n.(type) {
	case nil, tree.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case tree.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(v))}
	case tree.Number:
		if av := tree.ToAny(v); reflectInt(av) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", av)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(float64(v), 'g', -1, 64)}
	case tree.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case tree.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v {
			node.Content = append(node.Content, yamlNode(e))
		}
		return node
	case tree.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(v[k]))
		}
		return node
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func reflectInt(v any) bool {
	_, ok := v.(int64)
	return ok
}
