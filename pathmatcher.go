package iomock

import (
	"regexp"
	"strings"
)

// PathMatcher matches a path against a set of rules.
type PathMatcher interface {
	// Matches returns true if the path matches the matcher.
	Matches(path string) bool
}

// ExactMatcher matches a single path exactly, under a key comparer.
type ExactMatcher struct {
	path string
	cmp  KeyComparer
}

// NewExactMatcher creates a matcher for a single path. A nil cmp compares
// byte by byte.
func NewExactMatcher(path string, cmp KeyComparer) *ExactMatcher {
	if cmp == nil {
		cmp = Ordinal
	}
	return &ExactMatcher{path: path, cmp: cmp}
}

// Matches returns true if the path equals the stored path.
func (m *ExactMatcher) Matches(path string) bool {
	return m.cmp.Equal(path, m.path)
}

// GlobMatcher matches names or paths against a search pattern in which '*'
// stands for any run of characters and '?' for exactly one character.
// Neither wildcard crosses a directory separator.
type GlobMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// NewGlobMatcher compiles a search pattern. "*.*" is treated as "*", so it
// also matches names without an extension.
func NewGlobMatcher(pattern string, ignoreCase bool) *GlobMatcher {
	if pattern == "*.*" {
		pattern = "*"
	}

	var sb strings.Builder
	if ignoreCase {
		sb.WriteString("(?i)")
	}
	sb.WriteString(`^`)
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(`[^/\\]*`)
		case '?':
			sb.WriteString(`[^/\\]`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)

	return &GlobMatcher{pattern: pattern, re: regexp.MustCompile(sb.String())}
}

// Matches returns true if the whole of path matches the pattern.
func (m *GlobMatcher) Matches(path string) bool {
	return m.re.MatchString(path)
}

// String returns the pattern.
func (m *GlobMatcher) String() string {
	return m.pattern
}

// RegexpMatcher matches a path against a regular expression.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// NewRegexpMatcher creates a matcher for a regular expression.
func NewRegexpMatcher(pattern string) (*RegexpMatcher, error) {
	r, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexpMatcher{re: r}, nil
}

// Matches returns true if the path matches the regular expression.
func (m *RegexpMatcher) Matches(path string) bool {
	return m.re.MatchString(path)
}

// WildcardMatcher matches all paths.
type WildcardMatcher struct{}

// NewWildcardMatcher creates a matcher that matches all paths.
func NewWildcardMatcher() *WildcardMatcher {
	return &WildcardMatcher{}
}

// Matches returns true for all paths.
func (m *WildcardMatcher) Matches(path string) bool {
	return true
}

// nothingMatcher matches no path. An empty search pattern compiles to it.
type nothingMatcher struct{}

func (nothingMatcher) Matches(string) bool { return false }
