package editor

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/pfscgen/internal/domain"
)

// groupFile is the on-disk layout read by LoadSpecs:
//
//	groups:
//	  - name: example
//	    targets: [youtube.com]
//	    labels:
//	      instance_name: Facebook
//	      platform: facebook
type groupFile struct {
	Groups []groupEntry `yaml:"groups"`
}

type groupEntry struct {
	Name    string    `yaml:"name"`
	Targets []string  `yaml:"targets"`
	Labels  yaml.Node `yaml:"labels"`
}

// LoadSpecs decodes group seeds from YAML. Label mappings keep their document
// order, which decides the winner when two keys collide after trimming.
func LoadSpecs(r io.Reader) ([]domain.GroupSpec, error) {
	var f groupFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("editor.LoadSpecs: decode: %w", err)
	}

	specs := make([]domain.GroupSpec, 0, len(f.Groups))
	for i, e := range f.Groups {
		labels, err := decodeLabels(&e.Labels)
		if err != nil {
			return nil, fmt.Errorf("editor.LoadSpecs: group %d: %w", i, err)
		}
		specs = append(specs, domain.GroupSpec{Name: e.Name, Targets: e.Targets, Labels: labels})
	}
	return specs, nil
}

// decodeLabels reads a mapping node in document order. An absent node yields
// nil so the group gets its blank default row.
func decodeLabels(n *yaml.Node) ([]domain.Label, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
	case yaml.MappingNode:
		labels := make([]domain.Label, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("labels: key at line %d is not a scalar", k.Line)
			}
			if v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("labels: value of %q at line %d is not a scalar", k.Value, v.Line)
			}
			labels = append(labels, domain.Label{Key: k.Value, Value: v.Value})
		}
		return labels, nil
	}
	return nil, fmt.Errorf("labels: expected a mapping at line %d", n.Line)
}
