package escapes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hatchet-lint/hatchet/internal/config"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

func TestEvalSuppress(t *testing.T) {
	scope := &config.SuppressScopeConfig{
		Allow:  []string{"errcheck"},
		Forbid: []string{"gosec", "clippy"},
		Patterns: map[string][]string{
			"dead_code": {"// KEEP UNTIL:"},
		},
	}

	tests := []struct {
		name      string
		check     config.SuppressLevel
		marker    string
		directive m.SuppressDirective
		verdict   suppressVerdict
		code      string
		patterns  []string
	}{
		{
			name:      "forbidden code",
			check:     config.SuppressComment,
			directive: m.SuppressDirective{Codes: []string{"gosec"}},
			verdict:   verdictForbidden,
			code:      "gosec",
		},
		{
			name:      "forbid list matches by prefix",
			check:     config.SuppressComment,
			directive: m.SuppressDirective{Codes: []string{"clippy::unwrap_used"}},
			verdict:   verdictForbidden,
			code:      "clippy::unwrap_used",
		},
		{
			name:      "forbid list wins over allow list",
			check:     config.SuppressComment,
			directive: m.SuppressDirective{Codes: []string{"gosec", "errcheck"}},
			verdict:   verdictForbidden,
			code:      "gosec",
		},
		{
			name:      "allowed code skips comment requirement",
			check:     config.SuppressComment,
			directive: m.SuppressDirective{Codes: []string{"errcheck"}},
			verdict:   verdictNone,
		},
		{
			name:      "forbid level rejects everything",
			check:     config.SuppressForbid,
			directive: m.SuppressDirective{Codes: []string{"staticcheck"}},
			verdict:   verdictAllForbidden,
		},
		{
			name:      "missing comment with per-code patterns",
			check:     config.SuppressComment,
			directive: m.SuppressDirective{Codes: []string{"dead_code"}},
			verdict:   verdictMissingComment,
			code:      "dead_code",
			patterns:  []string{"// KEEP UNTIL:"},
		},
		{
			name:  "comment matching per-code pattern passes",
			check: config.SuppressComment,
			directive: m.SuppressDirective{
				Codes:       []string{"dead_code"},
				HasComment:  true,
				CommentText: "// KEEP UNTIL: compat window closes",
			},
			verdict: verdictNone,
		},
		{
			name:  "comment not matching per-code pattern fails",
			check: config.SuppressComment,
			directive: m.SuppressDirective{
				Codes:       []string{"dead_code"},
				HasComment:  true,
				CommentText: "// TODO: revisit",
			},
			verdict:  verdictMissingComment,
			code:     "dead_code",
			patterns: []string{"// KEEP UNTIL:"},
		},
		{
			name:   "global marker applies when no per-code pattern",
			check:  config.SuppressComment,
			marker: "// OK:",
			directive: m.SuppressDirective{
				Codes:       []string{"staticcheck"},
				HasComment:  true,
				CommentText: "OK: benign",
			},
			verdict: verdictNone,
		},
		{
			name:   "global marker mismatch fails",
			check:  config.SuppressComment,
			marker: "// OK:",
			directive: m.SuppressDirective{
				Codes:       []string{"staticcheck"},
				HasComment:  true,
				CommentText: "some explanation",
			},
			verdict:  verdictMissingComment,
			code:     "staticcheck",
			patterns: []string{"// OK:"},
		},
		{
			name:  "any comment accepted without marker",
			check: config.SuppressComment,
			directive: m.SuppressDirective{
				Codes:       []string{"staticcheck"},
				HasComment:  true,
				CommentText: "flaky upstream API",
			},
			verdict: verdictNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := evalSuppress(scope, tt.check, tt.marker, tt.directive)
			require.Equal(t, tt.verdict, finding.verdict)
			require.Equal(t, tt.code, finding.code)
			require.Equal(t, tt.patterns, finding.patterns)
		})
	}
}

func TestSuppressMissingCommentAdvice(t *testing.T) {
	tests := []struct {
		name     string
		language string
		code     string
		patterns []string
		want     string
	}{
		{
			name:     "rust dead_code with single pattern",
			language: "rust",
			code:     "dead_code",
			patterns: []string{"// KEEP UNTIL:"},
			want: "Lint suppression requires justification.\n" +
				"Is this code still needed?\n" +
				"If it should be kept, add:\n  // KEEP UNTIL: ...",
		},
		{
			name:     "rust truncation cast with multiple patterns",
			language: "rust",
			code:     "clippy::cast_possible_truncation",
			patterns: []string{"// CORRECTNESS:", "// SAFETY:"},
			want: "Lint suppression requires justification.\n" +
				"Is this cast safe?\n" +
				"If so, add one of:\n  // CORRECTNESS: ...\n  // SAFETY: ...",
		},
		{
			name:     "rust too_many_arguments refactor phrasing",
			language: "rust",
			code:     "clippy::too_many_arguments",
			patterns: []string{"// TODO(refactor):"},
			want: "Lint suppression requires justification.\n" +
				"Can this function be refactored?\n" +
				"If not, add:\n  // TODO(refactor): ...",
		},
		{
			name:     "go errcheck without patterns",
			language: "go",
			code:     "errcheck",
			want: "Lint suppression requires justification.\n" +
				"Is this error handling necessary to skip?\n" +
				"Add a comment above the directive or inline (//nolint:code // reason).",
		},
		{
			name:     "shell unknown code",
			language: "shell",
			code:     "SC9999",
			want: "Lint suppression requires justification.\n" +
				"Is this ShellCheck finding a false positive?\n" +
				"Add a comment above the directive.",
		},
		{
			name:     "javascript explicit any",
			language: "javascript",
			code:     "@typescript-eslint/no-explicit-any",
			want: "Lint suppression requires justification.\n" +
				"Can this be properly typed instead?\n" +
				"Add a comment above the directive or use inline reason (-- reason).",
		},
		{
			name:     "no code falls back to generic question",
			language: "rust",
			want: "Lint suppression requires justification.\n" +
				"Is this suppression necessary?\n" +
				"Add a comment above the attribute.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, suppressMissingCommentAdvice(tt.language, tt.code, tt.patterns))
		})
	}
}

// staticLines marks a fixed set of 0-indexed lines as inline test
// code.
type staticLines map[int]bool

func (s staticLines) IsTestLine(line int) bool { return s[line] }

func TestCheckSuppressDirectives(t *testing.T) {
	cfg := &config.SuppressConfig{
		Check: config.SuppressComment,
		Test:  config.SuppressScopeConfig{Check: config.SuppressAllow},
	}

	directives := []m.SuppressDirective{
		{Line: 3, Codes: []string{"errcheck"}, Display: "//nolint:errcheck"},
		{Line: 7, Codes: []string{"gosec"}, HasComment: true, CommentText: "input is trusted", Display: "//nolint:gosec"},
	}

	t.Run("test files are exempt by default", func(t *testing.T) {
		got := checkSuppressDirectives("go", "pkg/io_test.go", directives, cfg, true, nil)
		require.Empty(t, got)
	})

	t.Run("source directive without comment is flagged", func(t *testing.T) {
		got := checkSuppressDirectives("go", "pkg/io.go", directives, cfg, false, nil)
		require.Len(t, got, 1)
		require.Equal(t, m.ViolationSuppressMissingComment, got[0].Type)
		require.Equal(t, m.Path("pkg/io.go"), got[0].File)
		require.Equal(t, 3, got[0].Line)
		require.Equal(t, "//nolint:errcheck", got[0].Pattern)
	})

	t.Run("inline test lines use the test scope", func(t *testing.T) {
		got := checkSuppressDirectives("go", "pkg/io.go", directives, cfg, false, staticLines{2: true})
		require.Empty(t, got)
	})

	t.Run("forbid scope rejects every directive", func(t *testing.T) {
		strict := &config.SuppressConfig{
			Check:  config.SuppressComment,
			Source: config.SuppressScopeConfig{Check: config.SuppressForbid},
			Test:   config.SuppressScopeConfig{Check: config.SuppressAllow},
		}

		got := checkSuppressDirectives("go", "pkg/io.go", directives, strict, false, nil)
		require.Len(t, got, 2)
		require.Equal(t, m.ViolationSuppressForbidden, got[0].Type)
		require.Equal(t, "Lint suppressions are forbidden. Remove and fix the underlying issue.", got[0].Message)
	})
}
