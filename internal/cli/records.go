package cli

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/annotator/internal/annotation"
)

type annotationFile struct {
	Annotations []annotation.Record `yaml:"annotations"`
}

// ParseRecords reads annotation records from YAML or JSON. The document is
// either a list of records or a mapping with an "annotations" list. Records
// without an id get a random one.
func ParseRecords(data []byte) ([]annotation.Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var records []annotation.Record
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&records); err != nil {
			return nil, fmt.Errorf("decode annotations: %w", err)
		}
	case yaml.MappingNode:
		var file annotationFile
		if err := node.Content[0].Decode(&file); err != nil {
			return nil, fmt.Errorf("decode annotations: %w", err)
		}
		records = file.Annotations
	default:
		return nil, fmt.Errorf("parse annotations: expected a list or a mapping")
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
	return records, nil
}
