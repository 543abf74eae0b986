package workspace

import (
	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔎 Filter restricts a workspace to full names matching any of its patterns.
// A nil or empty filter matches everything.
type Filter struct {
	patterns []string
}

// NewFilter validates every pattern up front so matching can't fail later
func NewFilter(patterns []string) (*Filter, error) {
	var bad []string
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		return nil, errors.Errorf("invalid file patterns: %v", bad)
	}

	return &Filter{patterns: append([]string(nil), patterns...)}, nil
}

// Patterns returns a copy of the configured patterns
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}

// Match reports whether fullName passes the filter
func (f *Filter) Match(fullName string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	for _, p := range f.patterns {
		if ok, err := doublestar.Match(p, fullName); err == nil && ok {
			return true
		}
	}
	return false
}
