package lang

import (
	"strings"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// shellEscapes are the built-in escape patterns for shell scripts.
var shellEscapes = []m.EscapePattern{
	{
		Name:    "set_plus_e",
		Pattern: `set \+e`,
		Action:  m.ActionComment,
		Comment: "# OK:",
		Advice: "Most bash scripts should use 'set -e' to exit on errors. " +
			"Consider adding it to this script. " +
			"If error checking was intentionally disabled, add a # OK: comment explaining why.",
	},
	{
		Name:    "eval",
		Pattern: `\beval\s`,
		Action:  m.ActionComment,
		Comment: "# OK:",
		Advice: "eval can execute arbitrary code and is a common source of injection vulnerabilities. " +
			"If this usage is safe, add a # OK: comment explaining why.",
	},
}

// Shell is the language adapter for shell scripts.
type Shell struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewShell constructs the Shell adapter.
func NewShell(opts Options) *Shell {
	return &Shell{
		source: buildGlobSet(pick(opts.Source, []string{"**/*.sh", "**/*.bash"})),
		tests: buildGlobSet(pick(opts.Tests, []string{
			"**/tests/**/*.bats",
			"**/test/**/*.bats",
			"**/*_test.sh",
		})),
		ignore: buildGlobSet(opts.Ignore),
	}
}

func (s *Shell) Name() string { return "shell" }

func (s *Shell) Extensions() []string { return []string{"sh", "bash", "bats"} }

func (s *Shell) Classify(path m.Path) m.FileKind {
	if s.ignore.Match(path) {
		return m.FileKindOther
	}

	if s.tests.Match(path) {
		return m.FileKindTest
	}

	if s.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

func (s *Shell) DefaultEscapes() []m.EscapePattern { return shellEscapes }

func (s *Shell) DefaultLintConfigs() []string { return []string{".shellcheckrc"} }

// ParseSuppressions finds # shellcheck disable=SC2034,SC2086 directives.
func (s *Shell) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		codes, ok := parseShellcheckDisable(strings.TrimSpace(line))
		if !ok {
			continue
		}

		hasComment, text := checkJustificationComment(lines, i, marker, shellCommentStyle)

		out = append(out, m.SuppressDirective{
			Line:        i + 1,
			Tool:        m.SuppressToolShellcheck,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     "# shellcheck disable=" + codes[0],
		})
	}

	return out
}

// parseShellcheckDisable accepts both "# shellcheck disable=..." and
// "#shellcheck disable=...". An inline # comment after the codes is
// stripped.
func parseShellcheckDisable(line string) ([]string, bool) {
	body := strings.TrimSpace(strings.TrimLeft(line, "#"))

	rest, ok := strings.CutPrefix(body, "shellcheck")
	if !ok {
		return nil, false
	}

	codesStr, ok := strings.CutPrefix(strings.TrimSpace(rest), "disable=")
	if !ok {
		return nil, false
	}

	if idx := strings.Index(codesStr, "#"); idx >= 0 {
		codesStr = codesStr[:idx]
	}

	codes := splitCodes(codesStr, ",")
	if len(codes) == 0 {
		return nil, false
	}

	return codes, true
}

// DetectWorkspace has no package concept for shell projects.
func (s *Shell) DetectWorkspace(a.SourceFSAdapter, m.Path) *m.Workspace { return nil }
