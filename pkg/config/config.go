// Package config loads and validates the declarative label configuration.
//
// The file has three optional top level sections:
//
//	colors:  mapping of alias -> hex color
//	labels:  ordered list of {name, color, renamed?, description?}
//	ignores: list of label names exempt from deletion
//
// Load validates the whole document before any remote call is made, so a
// malformed configuration never causes partial remote mutation.
package config

import (
	"errors"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/facelessuser/label-mgr-action/pkg/colors"
)

var (
	// ErrInvalidName is returned when a label entry has no usable name.
	ErrInvalidName = errors.New("invalid label name")
	// ErrInvalidType is returned when a field that must hold a string
	// holds something else.
	ErrInvalidType = errors.New("value is not a string")
	// ErrDuplicateLabel is returned when two entries share a name,
	// compared case insensitively.
	ErrDuplicateLabel = errors.New("duplicate label name")
)

// strictString is a YAML scalar that must really be a string. The yaml
// decoder coerces ints and bools into plain string fields, so `name: 123`
// would silently load as "123"; rejecting every non-string tag keeps the
// original runtime type checks.
type strictString string

func (s *strictString) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "!!str":
		*s = strictString(node.Value)
	case "!!null":
		*s = ""
	default:
		return fmt.Errorf("%w: got %s %q", ErrInvalidType, node.Tag, node.Value)
	}
	return nil
}

// Label is one entry of the desired label set. Color holds a bare hex code,
// already resolved through the color table.
type Label struct {
	Name        string
	Renamed     string
	Color       string
	Description string
}

// MatchName is the name the label is expected to have on the remote right
// now: the declared prior name when the label was renamed, otherwise the
// current name.
func (l Label) MatchName() string {
	if l.Renamed != "" {
		return l.Renamed
	}
	return l.Name
}

// Manifest is the validated desired state: the label list in declaration
// order plus the set of names exempt from deletion.
type Manifest struct {
	Labels  []Label
	ignores map[string]bool
}

// Ignored reports whether name is exempt from deletion. The comparison is
// case insensitive.
func (m *Manifest) Ignored(name string) bool {
	return m.ignores[strings.ToLower(name)]
}

type rawLabel struct {
	Name        strictString `yaml:"name"`
	Color       strictString `yaml:"color"`
	Renamed     strictString `yaml:"renamed"`
	Description strictString `yaml:"description"`
}

type rawConfig struct {
	Colors  yaml.Node      `yaml:"colors"`
	Labels  []rawLabel     `yaml:"labels"`
	Ignores []strictString `yaml:"ignores"`
}

// Load decodes and validates a configuration document.
func Load(data []byte) (*Manifest, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return build(&raw)
}

func build(raw *rawConfig) (*Manifest, error) {
	table, err := buildColors(&raw.Colors)
	if err != nil {
		return nil, err
	}

	m := &Manifest{ignores: map[string]bool{}}
	seen := map[string]bool{}
	for _, entry := range raw.Labels {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: label entries require a non-empty name", ErrInvalidName)
		}
		color, err := table.Resolve(string(entry.Color))
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", entry.Name, err)
		}
		key := strings.ToLower(string(entry.Name))
		if seen[key] {
			return nil, fmt.Errorf("%w: %q is already present in the label list", ErrDuplicateLabel, entry.Name)
		}
		seen[key] = true
		m.Labels = append(m.Labels, Label{
			Name:        string(entry.Name),
			Renamed:     string(entry.Renamed),
			Color:       color,
			Description: string(entry.Description),
		})
	}

	for _, name := range raw.Ignores {
		m.ignores[strings.ToLower(string(name))] = true
	}
	return m, nil
}

// buildColors walks the colors mapping node directly rather than decoding
// into a map, so a re-declared alias is caught instead of silently winning.
func buildColors(node *yaml.Node) (colors.Table, error) {
	table := colors.NewTable()
	if node.Kind == 0 {
		return table, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decoding config: colors must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Tag != "!!str" {
			return nil, fmt.Errorf("%w: color name %s %q", ErrInvalidType, key.Tag, key.Value)
		}
		if value.Tag != "!!str" {
			return nil, fmt.Errorf("%w: color %s %q for %q", ErrInvalidType, value.Tag, value.Value, key.Value)
		}
		if err := table.Add(key.Value, value.Value); err != nil {
			return nil, err
		}
	}
	return table, nil
}
