package placeholder

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML flattens a YAML document into a Map. Nested keys are joined
// with dots and sequence items are addressed by index:
//
//	posts:
//	  url: https://example.com
//	  tags: [a, b]
//
// gives posts.url, posts.tags.0 and posts.tags.1.
func ParseYAML(data []byte) (Map, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	m := make(Map)
	if len(root.Content) == 0 {
		return m, nil
	}
	if err := flatten(m, "", root.Content[0]); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadYAML reads and flattens a YAML file.
func LoadYAML(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func flatten(m Map, prefix string, node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := flatten(m, key, node.Content[i+1]); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		for i, item := range node.Content {
			if err := flatten(m, prefix+"."+strconv.Itoa(i), item); err != nil {
				return err
			}
		}

	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("top level YAML value must be a mapping")
		}
		m[prefix] = node.Value

	case yaml.AliasNode:
		return flatten(m, prefix, node.Alias)

	default:
		return fmt.Errorf("unsupported YAML node at %q", prefix)
	}
	return nil
}
