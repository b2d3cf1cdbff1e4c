package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/imamik/hpcgate/internal/validators"
)

// SuppressAllToken selects every validator type.
const SuppressAllToken = "ALL"

// Suppression is a typed set of suppressed validator types. The zero value
// suppresses nothing.
type Suppression struct {
	all   bool
	types map[validators.Type]bool
}

// SuppressAll returns a suppression matching every validator type.
func SuppressAll() Suppression {
	return Suppression{all: true}
}

// SuppressTypes returns a suppression matching the given types.
func SuppressTypes(types ...validators.Type) Suppression {
	s := Suppression{types: make(map[validators.Type]bool, len(types))}
	for _, t := range types {
		s.types[t] = true
	}
	return s
}

// ParseSuppression parses "ALL" or validator type names. Unknown names are
// rejected with the closest known name as a hint.
func ParseSuppression(values []string) (Suppression, error) {
	var types []validators.Type
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				continue
			case strings.EqualFold(name, SuppressAllToken):
				return SuppressAll(), nil
			}
			t, err := validators.ParseType(name)
			if err != nil {
				if hint := closestType(name); hint != "" {
					return Suppression{}, fmt.Errorf("%w, did you mean %q?", err, hint)
				}
				return Suppression{}, err
			}
			types = append(types, t)
		}
	}
	return SuppressTypes(types...), nil
}

// Suppresses reports whether findings of t are suppressed.
func (s Suppression) Suppresses(t validators.Type) bool {
	return s.all || s.types[t]
}

// All reports whether every type is suppressed.
func (s Suppression) All() bool {
	return s.all
}

// IsEmpty reports whether nothing is suppressed.
func (s Suppression) IsEmpty() bool {
	return !s.all && len(s.types) == 0
}

// Types returns the suppressed types in catalog order; nil when All.
func (s Suppression) Types() []validators.Type {
	if s.all {
		return nil
	}
	var out []validators.Type
	for _, t := range validators.Types() {
		if s.types[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s Suppression) String() string {
	switch {
	case s.all:
		return SuppressAllToken
	case s.IsEmpty():
		return "none"
	}
	names := make([]string, 0, len(s.types))
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}

// closestType returns the validator name nearest to name, or "".
func closestType(name string) string {
	names := validators.TypeNames()
	slices.Sort(names)

	best, bestDist := "", -1
	for _, n := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(n))
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist < 0 || bestDist > max(len(name)/3, 2) {
		return ""
	}
	return best
}
