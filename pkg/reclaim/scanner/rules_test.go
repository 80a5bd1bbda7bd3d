package scanner

import "testing"

func TestRulesMatching(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{name: "exact path", patterns: []string{"/proc"}, path: "/proc", want: true},
		{name: "path prefix", patterns: []string{"/proc"}, path: "/proc/1/maps", want: true},
		{name: "prefix requires boundary", patterns: []string{"/proc"}, path: "/process", want: false},
		{name: "base name anywhere", patterns: []string{"node_modules"}, path: "/home/u/app/node_modules", want: true},
		{name: "base name no partial", patterns: []string{"node_modules"}, path: "/home/u/app/node_modules_bak", want: false},
		{name: "glob on base", patterns: []string{"*.log"}, path: "/var/tmp/app.log", want: true},
		{name: "glob miss", patterns: []string{"*.log"}, path: "/var/tmp/app.txt", want: false},
		{name: "brace glob", patterns: []string{"*.{tmp,bak}"}, path: "/d/x.bak", want: true},
		{name: "multiple rules", patterns: []string{"*.log", ".git"}, path: "/repo/.git", want: true},
		{name: "no rules", patterns: nil, path: "/anything", want: false},
		{name: "empty pattern ignored", patterns: []string{""}, path: "/anything", want: false},
		{name: "trailing slash cleaned", patterns: []string{"/var/cache/"}, path: "/var/cache/apt", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := CompileRules(tt.patterns)
			if err != nil {
				t.Fatalf("CompileRules(%v) error = %v", tt.patterns, err)
			}
			if got := rules.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCompileRulesRejectsBadGlob(t *testing.T) {
	if _, err := CompileRules([]string{"[unterminated"}); err == nil {
		t.Error("CompileRules accepted an unterminated character class")
	}
}

func TestRulesLen(t *testing.T) {
	rules, err := CompileRules([]string{"a", "", "*.b"})
	if err != nil {
		t.Fatalf("CompileRules() error = %v", err)
	}
	if rules.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (empty pattern dropped)", rules.Len())
	}
}
