package escapes

import "strings"

// hasJustificationComment reports whether a pattern match on the given
// 1-indexed line is justified by a comment. The marker must appear at
// the start of the comment content, not embedded in other text: a
// "// SAFETY:" buried inside "// VIOLATION: missing // SAFETY: comment"
// does not count.
//
// The same line is checked first for an inline comment. Failing that,
// the search walks upward through comment lines and stops at the first
// blank line or non-comment line.
func hasJustificationComment(lines []string, matchLine int, marker string) bool {
	idx := matchLine - 1

	if idx >= 0 && idx < len(lines) {
		line := lines[idx]
		if pos, ok := findCommentStart(line); ok {
			if commentStartsWithMarker(line[pos:], marker) {
				return true
			}
		}
	}

	for i := idx - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])

		if isCommentLine(line) {
			if commentStartsWithMarker(line, marker) {
				return true
			}

			continue
		}

		break
	}

	return false
}

// commentStartsWithMarker compares comment content against the marker
// content, with comment tokens stripped from both sides.
func commentStartsWithMarker(comment, marker string) bool {
	return strings.HasPrefix(stripCommentMarkers(comment), stripCommentMarkers(marker))
}

// commentTokens are the comment-start tokens stripped before content
// comparison, longest first so "///" wins over "//".
var commentTokens = []string{"///", "//!", "//", "/*", "#", "--", ";;", "*"}

// stripCommentMarkers removes a leading comment token and surrounding
// whitespace, leaving the comment content.
func stripCommentMarkers(s string) string {
	trimmed := strings.TrimSpace(s)

	for _, token := range commentTokens {
		if rest, ok := strings.CutPrefix(trimmed, token); ok {
			return strings.TrimLeft(rest, " \t")
		}
	}

	return trimmed
}

// findCommentStart locates the comment marker in a line, if any. A "#"
// only counts at the start of the line or after a space, to avoid
// matching "#" inside strings.
func findCommentStart(line string) (int, bool) {
	if pos := strings.Index(line, "//"); pos >= 0 {
		return pos, true
	}

	if pos := strings.Index(line, "#"); pos >= 0 {
		if pos == 0 || line[pos-1] == ' ' {
			return pos, true
		}
	}

	return 0, false
}

// isCommentLine applies language-agnostic heuristics for whole-line
// comments.
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "--") ||
		strings.HasPrefix(trimmed, ";;")
}

// isMatchInComment reports whether a match at the given byte offset
// sits inside the comment portion of its line. Matches in comments are
// skipped for comment and forbid actions so that prose like "don't use
// eval" does not trip the check.
//
// Go compiler directives ("//go:linkname" and friends) are comment
// syntax on purpose, so a match at the comment start of a directive
// line still counts.
func isMatchInComment(lineContent string, offsetInLine int) bool {
	pos, ok := findCommentStart(lineContent)
	if !ok {
		return false
	}

	if offsetInLine == pos && isGoDirective(lineContent) {
		return false
	}

	return offsetInLine >= pos
}

func isGoDirective(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//go:")
}
