package depfile

import (
	"github.com/gobwas/glob"
	"github.com/rotisserie/eris"
)

// DefaultExcludes drops trace lines that reference remote documents (i.e. DTDs fetched over HTTP)
var DefaultExcludes = []string{"*http:*", "*https:*", "*ftp:*"}

// Filter decides which trace lines are ignored
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles the given glob patterns. Patterns are matched against the whole trace line.
func NewFilter(patterns ...string) (*Filter, error) {
	f := &Filter{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid exclude pattern %q", pattern)
		}

		f.patterns = append(f.patterns, pattern)
		f.globs = append(f.globs, g)
	}

	return f, nil
}

// Patterns returns the compiled patterns in their original form
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return f.patterns
}

// Excluded reports whether line matches any pattern. A nil filter excludes nothing.
func (f *Filter) Excluded(line string) bool {
	if f == nil {
		return false
	}

	for _, g := range f.globs {
		if g.Match(line) {
			return true
		}
	}
	return false
}
