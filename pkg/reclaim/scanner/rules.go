package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// rule is a single compiled path pattern. Patterns containing glob
// metacharacters are compiled with gobwas/glob and matched against both the
// full path and the base name; plain patterns match as an exact path, a path
// prefix, or a base name.
type rule struct {
	raw string
	g   glob.Glob
}

func (r rule) matches(path string) bool {
	if r.g != nil {
		return r.g.Match(path) || r.g.Match(filepath.Base(path))
	}
	if path == r.raw || strings.HasPrefix(path, r.raw+string(filepath.Separator)) {
		return true
	}
	return filepath.Base(path) == r.raw
}

// Rules is a compiled set of path patterns. The walker prunes directories
// and skips files that match; the delete command uses the same matching to
// select paths.
type Rules struct {
	rules []rule
}

// CompileRules compiles path patterns. An unparsable glob pattern is a
// configuration error.
func CompileRules(patterns []string) (*Rules, error) {
	rs := &Rules{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.ContainsAny(p, `*?[{\`) {
			g, err := glob.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			rs.rules = append(rs.rules, rule{raw: p, g: g})
			continue
		}
		rs.rules = append(rs.rules, rule{raw: filepath.Clean(p)})
	}
	return rs, nil
}

// Matches reports whether the path matches any rule.
func (r *Rules) Matches(path string) bool {
	for _, rule := range r.rules {
		if rule.matches(path) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled rules.
func (r *Rules) Len() int {
	return len(r.rules)
}
