// Package colors resolves label color values, either literal hex codes or
// named aliases declared in the configuration's color table.
package colors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

var (
	// ErrInvalidColor is returned when a color value is not a 6 digit hex code.
	ErrInvalidColor = errors.New("invalid color")
	// ErrUnknownColor is returned when a color alias has no table entry.
	ErrUnknownColor = errors.New("unknown color alias")
	// ErrDuplicateColor is returned when an alias is declared twice.
	ErrDuplicateColor = errors.New("duplicate color name")
)

// Table maps color aliases to hex codes. Codes are stored without the
// leading '#'. A Table is populated once at configuration load and never
// mutated afterward.
type Table map[string]string

// NewTable returns an empty color table.
func NewTable() Table {
	return Table{}
}

// Add registers an alias. The value must be a 6 digit hex code, optionally
// prefixed with '#'; it is stored stripped. Re-declaring an alias fails.
func (t Table) Add(name, value string) error {
	if !hexColor.MatchString(value) {
		return fmt.Errorf("%w: %q is not a valid color for %q", ErrInvalidColor, value, name)
	}
	if _, ok := t[name]; ok {
		return fmt.Errorf("%w: %q is already present in the color list", ErrDuplicateColor, name)
	}
	t[name] = strings.TrimPrefix(value, "#")
	return nil
}

// Resolve turns a color reference into a bare hex code. A literal hex code
// (with or without '#') is returned stripped; anything else is looked up as
// an alias.
func (t Table) Resolve(s string) (string, error) {
	if hexColor.MatchString(s) {
		return strings.TrimPrefix(s, "#"), nil
	}
	color, ok := t[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return color, nil
}
