package lang

import m "github.com/hatchet-lint/hatchet/internal/model"

// defaultGenericTests are the test globs used when no language is
// detected and the project config names none.
var defaultGenericTests = []string{
	"**/tests/**",
	"**/test/**",
	"**/*_test.*",
	"**/*_tests.*",
	"**/*.test.*",
	"**/*.spec.*",
}

// Generic is the fallback adapter for projects with no recognized
// language markers. It has no default escapes and no suppression
// syntax; classification comes entirely from configured globs.
type Generic struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewGeneric constructs the fallback adapter.
func NewGeneric(opts Options) *Generic {
	return &Generic{
		source: buildGlobSet(opts.Source),
		tests:  buildGlobSet(pick(opts.Tests, defaultGenericTests)),
		ignore: buildGlobSet(opts.Ignore),
	}
}

func (g *Generic) Name() string { return "generic" }

func (g *Generic) Extensions() []string { return nil }

// Classify treats every non-test file as source unless source globs
// are configured, in which case the file must match one.
func (g *Generic) Classify(path m.Path) m.FileKind {
	if g.ignore.Match(path) {
		return m.FileKindOther
	}

	if g.tests.Match(path) {
		return m.FileKindTest
	}

	if !g.source.Empty() {
		if g.source.Match(path) {
			return m.FileKindSource
		}

		return m.FileKindOther
	}

	return m.FileKindSource
}

func (g *Generic) DefaultEscapes() []m.EscapePattern { return nil }

func (g *Generic) DefaultLintConfigs() []string { return nil }

func (g *Generic) ParseSuppressions(string, string) []m.SuppressDirective { return nil }
