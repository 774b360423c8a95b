package lang

import (
	"strings"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// rubyEscapes are the built-in escape patterns for Ruby. Debugger
// patterns stay forbidden even in test code.
var rubyEscapes = []m.EscapePattern{
	{
		Name:    "binding_pry",
		Pattern: `binding\.pry`,
		Action:  m.ActionForbid,
		Advice:  "Remove debugger statement before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "byebug",
		Pattern: `\bbyebug\b`,
		Action:  m.ActionForbid,
		Advice:  "Remove debugger statement before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "debugger",
		Pattern: `\bdebugger\b`,
		Action:  m.ActionForbid,
		Advice:  "Remove debugger statement before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "eval",
		Pattern: `\beval\s*\(`,
		Action:  m.ActionComment,
		Comment: "# METAPROGRAMMING:",
		Advice:  "Add a # METAPROGRAMMING: comment explaining why eval is necessary.",
	},
	{
		Name:    "instance_eval",
		Pattern: `\.instance_eval\b`,
		Action:  m.ActionComment,
		Comment: "# METAPROGRAMMING:",
		Advice:  "Add a # METAPROGRAMMING: comment explaining the DSL or metaprogramming use case.",
	},
	{
		Name:    "class_eval",
		Pattern: `\.class_eval\b`,
		Action:  m.ActionComment,
		Comment: "# METAPROGRAMMING:",
		Advice:  "Add a # METAPROGRAMMING: comment explaining the metaprogramming use case.",
	},
}

// Ruby is the language adapter for Ruby projects.
type Ruby struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewRuby constructs the Ruby adapter.
func NewRuby(opts Options) *Ruby {
	return &Ruby{
		source: buildGlobSet(pick(opts.Source, []string{
			"**/*.rb",
			"**/*.rake",
			"Rakefile",
			"Gemfile",
			"*.gemspec",
		})),
		tests: buildGlobSet(pick(opts.Tests, []string{
			"spec/**/*_spec.rb",
			"test/**/*_test.rb",
			"test/**/test_*.rb",
			"features/**/*.rb",
		})),
		ignore: buildGlobSet(pick(opts.Ignore, []string{
			"vendor/**",
			"tmp/**",
			"log/**",
			"coverage/**",
		})),
	}
}

func (r *Ruby) Name() string { return "ruby" }

func (r *Ruby) Extensions() []string { return []string{"rb", "rake"} }

func (r *Ruby) Classify(path m.Path) m.FileKind {
	if r.ignore.Match(path) {
		return m.FileKindOther
	}

	if r.tests.Match(path) {
		return m.FileKindTest
	}

	if r.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

func (r *Ruby) DefaultEscapes() []m.EscapePattern { return rubyEscapes }

func (r *Ruby) DefaultLintConfigs() []string {
	return []string{".rubocop.yml", ".rubocop_todo.yml", ".standard.yml"}
}

// ParseSuppressions finds rubocop:disable, rubocop:todo, and the
// standard gem's equivalents. rubocop:enable lines close a disabled
// region and carry no suppression of their own, so they are skipped.
func (r *Ruby) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		pos := strings.Index(line, "#")
		if pos < 0 {
			continue
		}

		body := strings.TrimSpace(strings.TrimLeft(line[pos:], "#"))

		d, ok := parseRubyDirective(body)
		if !ok {
			continue
		}

		d.Line = i + 1
		d.HasComment, d.CommentText = checkJustificationComment(lines, i, marker, rubyCommentStyle)
		out = append(out, d)
	}

	return out
}

func parseRubyDirective(body string) (m.SuppressDirective, bool) {
	var (
		tool m.SuppressTool
		rest string
	)

	switch {
	case strings.HasPrefix(body, "rubocop:"):
		tool = m.SuppressToolRubocop
		rest = body[len("rubocop:"):]
	case strings.HasPrefix(body, "standard:"):
		tool = m.SuppressToolStandard
		rest = body[len("standard:"):]
	default:
		return m.SuppressDirective{}, false
	}

	verb, codesStr, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if verb != "disable" && verb != "todo" {
		return m.SuppressDirective{}, false
	}

	codes := splitCodes(codesStr, ",")

	return m.SuppressDirective{
		Tool:    tool,
		Codes:   codes,
		Display: "# " + string(tool) + ":" + verb + " " + firstOr(codes, "unknown"),
	}, true
}

// DetectWorkspace has no multi-package concept for Ruby projects.
func (r *Ruby) DetectWorkspace(a.SourceFSAdapter, m.Path) *m.Workspace { return nil }
