package escapes

import (
	"fmt"
	"strings"

	"github.com/hatchet-lint/hatchet/internal/config"
	"github.com/hatchet-lint/hatchet/internal/lang"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// suppressVerdict classifies why a suppression directive violates the
// policy.
type suppressVerdict int

const (
	verdictNone suppressVerdict = iota
	// verdictForbidden: a code on the forbid list was suppressed.
	verdictForbidden
	// verdictMissingComment: the required justification is absent.
	verdictMissingComment
	// verdictAllForbidden: the scope forbids every suppression.
	verdictAllForbidden
)

// suppressFinding is the outcome of evaluating one directive.
type suppressFinding struct {
	verdict suppressVerdict

	// code is the forbidden code for verdictForbidden, or the lint
	// code driving the guidance for verdictMissingComment.
	code string

	// patterns are the accepted justification markers for
	// verdictMissingComment.
	patterns []string
}

// evalSuppress checks one directive against a scope config. Evaluation
// order: forbid list, allow list, scope-wide forbid, comment
// requirement. The first hit wins.
func evalSuppress(scope *config.SuppressScopeConfig, check config.SuppressLevel, globalMarker string, d m.SuppressDirective) suppressFinding {
	for _, code := range d.Codes {
		if codeInList(code, scope.Forbid) {
			return suppressFinding{verdict: verdictForbidden, code: code}
		}
	}

	for _, code := range d.Codes {
		if codeInList(code, scope.Allow) {
			return suppressFinding{verdict: verdictNone}
		}
	}

	if check == config.SuppressForbid {
		return suppressFinding{verdict: verdictAllForbidden}
	}

	if check == config.SuppressComment {
		code, patterns := requiredPatterns(scope, globalMarker, d.Codes)
		if !hasValidComment(d, patterns) {
			return suppressFinding{verdict: verdictMissingComment, code: code, patterns: patterns}
		}
	}

	return suppressFinding{verdict: verdictNone}
}

// requiredPatterns resolves the accepted justification markers for a
// directive: the first suppressed code with per-code patterns wins,
// otherwise the global marker applies.
func requiredPatterns(scope *config.SuppressScopeConfig, globalMarker string, codes []string) (string, []string) {
	for _, code := range codes {
		if patterns, ok := scope.Patterns[code]; ok {
			return code, patterns
		}
	}

	code := ""
	if len(codes) > 0 {
		code = codes[0]
	}

	if globalMarker == "" {
		return code, nil
	}

	return code, []string{globalMarker}
}

// hasValidComment reports whether the directive carries an acceptable
// justification. Without required patterns any comment qualifies; with
// patterns the comment content must start with one of them.
func hasValidComment(d m.SuppressDirective, patterns []string) bool {
	if !d.HasComment {
		return false
	}

	if len(patterns) == 0 {
		return true
	}

	text := normalizeCommentText(d.CommentText)
	for _, pattern := range patterns {
		if strings.HasPrefix(text, normalizeCommentText(pattern)) {
			return true
		}
	}

	return false
}

// normalizeCommentText strips comment tokens and whitespace so
// "// SAFETY:" and "# SAFETY:" compare equal to "SAFETY:".
func normalizeCommentText(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimPrefix(trimmed, "#")

	return strings.TrimSpace(trimmed)
}

// codeInList matches a code against a config list, exact or by
// "prefix::" namespace ("clippy" matches "clippy::unwrap_used").
func codeInList(code string, list []string) bool {
	for _, pattern := range list {
		if code == pattern || strings.HasPrefix(code, pattern+"::") {
			return true
		}
	}

	return false
}

// lintGuidance returns the question a reviewer should answer before
// keeping a suppression, tailored to well-known codes per language.
func lintGuidance(language, code string) string {
	switch language {
	case "rust":
		switch code {
		case "dead_code":
			return "Is this code still needed?"
		case "clippy::too_many_arguments":
			return "Can this function be refactored?"
		case "clippy::cast_possible_truncation":
			return "Is this cast safe?"
		case "deprecated":
			return "Can this deprecated API be replaced?"
		}
	case "shell":
		switch code {
		case "SC2034":
			return "Is this unused variable needed?"
		case "SC2086":
			return "Is unquoted expansion intentional here?"
		case "SC2154":
			return "Is this variable defined externally?"
		}

		if code != "" {
			return "Is this ShellCheck finding a false positive?"
		}
	case "go":
		switch code {
		case "errcheck":
			return "Is this error handling necessary to skip?"
		case "gosec":
			return "Is this security finding a false positive?"
		}
	case "javascript":
		switch code {
		case "no-console":
			return "Is this console output needed in production?"
		case "no-explicit-any", "@typescript-eslint/no-explicit-any", "lint/suspicious/noExplicitAny":
			return "Can this be properly typed instead?"
		case "no-unused-vars", "@typescript-eslint/no-unused-vars":
			return "Is this variable still needed?"
		}
	}

	return "Is this suppression necessary?"
}

// formatPatternInstructions renders the "add one of:" tail of the
// missing-comment advice. The conditional phrase follows from the
// guidance question: refactoring questions get "If not", keep-or-drop
// questions get "If it should be kept", yes/no safety questions get
// "If so".
func formatPatternInstructions(patterns []string, guidance string) string {
	if len(patterns) == 0 {
		return ""
	}

	condition := "it should be kept"

	switch {
	case strings.HasPrefix(guidance, "Can this function be refactored"):
		condition = "not"
	case strings.Contains(guidance, "still needed") || strings.Contains(guidance, "unused variable needed"):
		condition = "it should be kept"
	case strings.HasPrefix(guidance, "Is this") || strings.HasPrefix(guidance, "Is unquoted"):
		condition = "so"
	}

	if len(patterns) == 1 {
		return fmt.Sprintf("If %s, add:\n  %s ...", condition, patterns[0])
	}

	formatted := make([]string, 0, len(patterns))
	for _, p := range patterns {
		formatted = append(formatted, "  "+p+" ...")
	}

	return fmt.Sprintf("If %s, add one of:\n%s", condition, strings.Join(formatted, "\n"))
}

// suppressMissingCommentAdvice builds the three-part advice for a
// suppression lacking justification: the general statement, the
// lint-specific question, and how to satisfy the requirement.
func suppressMissingCommentAdvice(language, code string, patterns []string) string {
	parts := []string{"Lint suppression requires justification."}

	guidance := lintGuidance(language, code)
	parts = append(parts, guidance)

	if len(patterns) > 0 {
		parts = append(parts, formatPatternInstructions(patterns, guidance))
	} else {
		switch language {
		case "rust":
			parts = append(parts, "Add a comment above the attribute.")
		case "go":
			parts = append(parts, "Add a comment above the directive or inline (//nolint:code // reason).")
		case "javascript":
			parts = append(parts, "Add a comment above the directive or use inline reason (-- reason).")
		default:
			parts = append(parts, "Add a comment above the directive.")
		}
	}

	return strings.Join(parts, "\n")
}

// checkSuppressDirectives enforces the suppress policy over every
// directive the adapter found in one file. Lines inside inline test
// blocks use the test scope even in source files; inline is nil for
// languages without inline tests.
func checkSuppressDirectives(
	language string,
	path m.Path,
	directives []m.SuppressDirective,
	cfg *config.SuppressConfig,
	isTestFile bool,
	inline lang.InlineTests,
) []m.Violation {
	fileCheck := cfg.ScopeCheck(&cfg.Source)
	if isTestFile {
		fileCheck = cfg.ScopeCheck(&cfg.Test)
	}

	if fileCheck == config.SuppressAllow {
		return nil
	}

	var violations []m.Violation

	for _, d := range directives {
		isTestLine := inline != nil && inline.IsTestLine(d.Line-1)

		scope, check := &cfg.Source, cfg.ScopeCheck(&cfg.Source)
		if isTestFile || isTestLine {
			scope, check = &cfg.Test, cfg.ScopeCheck(&cfg.Test)
		}

		if check == config.SuppressAllow {
			continue
		}

		finding := evalSuppress(scope, check, cfg.Comment, d)
		if finding.verdict == verdictNone {
			continue
		}

		violations = append(violations, suppressViolation(language, path, d, finding))
	}

	return violations
}

// suppressViolation renders a finding into the reported violation.
func suppressViolation(language string, path m.Path, d m.SuppressDirective, finding suppressFinding) m.Violation {
	var (
		vtype   m.ViolationType
		message string
	)

	switch finding.verdict {
	case verdictForbidden:
		vtype = m.ViolationSuppressForbidden
		message = fmt.Sprintf("Suppressing `%s` is forbidden. Remove the suppression or address the issue.", finding.code)
	case verdictMissingComment:
		vtype = m.ViolationSuppressMissingComment
		message = suppressMissingCommentAdvice(language, finding.code, finding.patterns)
	default:
		vtype = m.ViolationSuppressForbidden
		message = "Lint suppressions are forbidden. Remove and fix the underlying issue."
	}

	return m.Violation{
		File:    path,
		Line:    d.Line,
		Type:    vtype,
		Pattern: d.Display,
		Message: message,
	}
}
