package lang

import (
	"log/slog"

	"github.com/gobwas/glob"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// globSet matches a path against a list of compiled glob patterns.
type globSet struct {
	globs []glob.Glob
}

// buildGlobSet compiles patterns with '/' as the path separator.
// Invalid patterns are logged and skipped.
//
// glob's "**" always spans at least one path component, but the
// gitignore-style reading of "**/" is zero or more. Each pattern is
// therefore also compiled with every subset of its "**/" segments
// removed, so "**/tests/**/*.py" matches "tests/a.py" and
// "src/tests/a.py" alike.
func buildGlobSet(patterns []string) globSet {
	var set globSet

	add := func(pattern string) {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			slog.Warn("invalid glob pattern", "pattern", pattern, "error", err)
			return
		}

		set.globs = append(set.globs, compiled)
	}

	for _, pattern := range patterns {
		for _, variant := range doubleStarVariants(pattern) {
			add(variant)
		}
	}

	return set
}

// doubleStarVariants expands a pattern into every form reachable by
// dropping "**/" segments that sit at the start of the pattern or
// right after a slash.
func doubleStarVariants(pattern string) []string {
	seen := map[string]bool{pattern: true}
	queue := []string{pattern}

	for i := 0; i < len(queue); i++ {
		p := queue[i]

		for j := 0; j+3 <= len(p); j++ {
			if p[j:j+3] != "**/" || (j > 0 && p[j-1] != '/') {
				continue
			}

			variant := p[:j] + p[j+3:]
			if variant != "" && !seen[variant] {
				seen[variant] = true
				queue = append(queue, variant)
			}
		}
	}

	return queue
}

func (s globSet) Match(path m.Path) bool {
	for _, g := range s.globs {
		if g.Match(string(path)) {
			return true
		}
	}

	return false
}

func (s globSet) Empty() bool {
	return len(s.globs) == 0
}
