package scanner

import (
	"fmt"
	"regexp"
)

// Allowlist suppresses known false positives. Paths are matched against the
// staged path before a file is scanned; patterns are matched against a
// finding's matched line before it is reported.
type Allowlist struct {
	paths    []*regexp.Regexp
	patterns []*regexp.Regexp
}

// NewAllowlist compiles the given path and pattern regexes. A nil Allowlist
// is valid and allows nothing.
func NewAllowlist(paths, patterns []string) (*Allowlist, error) {
	compile := func(exprs []string, kind string) ([]*regexp.Regexp, error) {
		res := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("allowlist %s %q: %w", kind, expr, err)
			}
			res = append(res, re)
		}
		return res, nil
	}

	compiledPaths, err := compile(paths, "path")
	if err != nil {
		return nil, err
	}
	compiledPatterns, err := compile(patterns, "pattern")
	if err != nil {
		return nil, err
	}

	return &Allowlist{paths: compiledPaths, patterns: compiledPatterns}, nil
}

// PathAllowed reports whether the staged path matches an allowlisted path.
func (a *Allowlist) PathAllowed(path string) bool {
	if a == nil {
		return false
	}
	for _, re := range a.paths {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// ValueAllowed reports whether a matched line matches an allowlisted pattern.
func (a *Allowlist) ValueAllowed(value string) bool {
	if a == nil {
		return false
	}
	for _, re := range a.patterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
