package lang

import "strings"

// commentStyle describes how a language writes comments, and which
// comment lines are directives rather than prose.
type commentStyle struct {
	// prefix is the line comment marker ("//" or "#").
	prefix string
	// directives are substrings that mark a comment line as another
	// directive instead of a justification.
	directives []string
}

var (
	rustCommentStyle = commentStyle{prefix: "//", directives: []string{"#["}}

	goCommentStyle = commentStyle{prefix: "//", directives: []string{"//go:", "//nolint"}}

	pythonCommentStyle = commentStyle{prefix: "#", directives: []string{"noqa", "type:", "pylint:", "pragma:"}}

	jsCommentStyle = commentStyle{prefix: "//", directives: []string{
		"eslint-disable", "eslint-enable", "biome-ignore", "@ts-ignore", "@ts-expect-error",
	}}

	rubyCommentStyle = commentStyle{prefix: "#", directives: []string{"rubocop:", "standard:"}}

	shellCommentStyle = commentStyle{prefix: "#", directives: []string{"shellcheck"}}
)

// checkJustificationComment walks upward from the directive line
// looking for an explanatory comment. The walk stops at the first
// blank line and at the first non-comment line. When marker is
// non-empty the comment must start with it (comment prefixes are
// ignored on both sides); otherwise any non-empty comment counts.
//
// Returns whether a justification was found and its text.
func checkJustificationComment(lines []string, directiveLine int, marker string, style commentStyle) (bool, string) {
	for i := directiveLine - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])

		if line == "" {
			break
		}

		if strings.HasPrefix(line, style.prefix) {
			if isDirectiveLine(line, style) {
				continue
			}

			text := strings.TrimSpace(strings.TrimPrefix(line, style.prefix))

			if marker != "" {
				markerContent := strings.TrimSpace(strings.TrimPrefix(marker, style.prefix))
				if strings.HasPrefix(text, markerContent) || strings.HasPrefix(line, marker) {
					return true, text
				}

				continue
			}

			if text != "" {
				return true, text
			}

			continue
		}

		// Rust attributes may stack between the comment and the
		// directive line.
		if !strings.HasPrefix(line, "#") {
			break
		}
	}

	return false, ""
}

func isDirectiveLine(line string, style commentStyle) bool {
	for _, d := range style.directives {
		if strings.Contains(line, d) {
			return true
		}
	}

	return false
}
