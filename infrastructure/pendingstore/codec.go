// Package pendingstore persists pending approval queues, either as YAML files
// next to the configuration or as YAML blobs in Valkey.
package pendingstore

import (
	"fmt"

	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"gopkg.in/yaml.v3"
)

// decodeQueue reads the sequence stored under field. Empty documents, a
// missing field, a null value and a bare empty list all mean "nothing pending".
func decodeQueue[E any](data []byte, field string) ([]E, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, pkgError.ParseError(fmt.Sprintf("invalid pending document: %v", err))
	}

	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}

	switch root.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if root.ShortTag() == "!!null" {
			return nil, nil
		}
	case yaml.SequenceNode:
		if len(root.Content) == 0 {
			return nil, nil
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value != field {
				continue
			}
			value := root.Content[i+1]
			if value.ShortTag() == "!!null" {
				return nil, nil
			}
			var entries []E
			if err := value.Decode(&entries); err != nil {
				return nil, pkgError.ParseError(fmt.Sprintf("invalid %s: %v", field, err))
			}
			return entries, nil
		}
		return nil, nil
	}
	return nil, pkgError.ParseError(fmt.Sprintf("pending document must be a mapping with a %s field", field))
}

func encodeQueue[E any](entries []E, field string) ([]byte, error) {
	if entries == nil {
		entries = []E{}
	}
	data, err := yaml.Marshal(map[string][]E{field: entries})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", field, err)
	}
	return data, nil
}
