package lang

import "strings"

// cfgTestInfo records the line ranges of #[cfg(test)] blocks so
// matches inside them can be treated as test code.
type cfgTestInfo struct {
	// ranges are half-open [start, end) 0-indexed line ranges.
	ranges [][2]int
}

// IsTestLine implements InlineTests.
func (c *cfgTestInfo) IsTestLine(line int) bool {
	for _, r := range c.ranges {
		if line >= r[0] && line < r[1] {
			return true
		}
	}

	return false
}

// lexState tracks what context the brace counter is in.
type lexState int

const (
	lexCode lexState = iota
	lexString
	lexRawString
	lexChar
)

// parseCfgTest scans Rust source for #[cfg(test)] blocks by counting
// braces, skipping braces inside string, raw string, and char
// literals. Multi-line attributes are accumulated until their closing
// ")]" appears. A `mod tests;` declaration after the attribute is an
// external module, not an inline block.
func parseCfgTest(content string) *cfgTestInfo {
	info := &cfgTestInfo{}

	inCfgTest := false
	waitingForBlock := false
	braceDepth := 0
	blockStart := 0

	pending := ""
	pendingStart := 0

	for idx, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if pending != "" {
			pending += trimmed

			if strings.Contains(pending, ")]") {
				if isCfgTestAttr(pending) {
					inCfgTest = true
					waitingForBlock = true
					blockStart = pendingStart
					braceDepth = 0
				}

				pending = ""
			}

			continue
		}

		if !inCfgTest && strings.Contains(trimmed, "#[cfg(") {
			if !strings.Contains(trimmed, ")]") {
				pending = trimmed
				pendingStart = idx

				continue
			}

			if isCfgTestAttr(trimmed) {
				inCfgTest = true
				waitingForBlock = true
				blockStart = idx
				braceDepth = 0

				continue
			}
		}

		if !inCfgTest {
			continue
		}

		// Stacked attributes like #[path = "..."] sit between the
		// cfg attribute and the item.
		if strings.HasPrefix(trimmed, "#[") {
			continue
		}

		delta := countBraces(trimmed)

		if waitingForBlock {
			switch {
			case delta > 0:
				waitingForBlock = false
				braceDepth += delta
			case strings.HasSuffix(trimmed, ";") && trimmed != "":
				// External module declaration: mod tests;
				inCfgTest = false
				waitingForBlock = false
			}

			continue
		}

		braceDepth += delta

		if braceDepth == 0 && delta < 0 {
			info.ranges = append(info.ranges, [2]int{blockStart, idx + 1})
			inCfgTest = false
		}
	}

	return info
}

// isCfgTestAttr reports whether the cfg attribute content names the
// test configuration, including forms like cfg(all(test, unix)).
func isCfgTestAttr(attr string) bool {
	start := strings.Index(attr, "#[cfg(")
	if start < 0 {
		return false
	}

	inner := attr[start+len("#[cfg("):]

	end := strings.Index(inner, ")]")
	if end < 0 {
		return false
	}

	for _, word := range strings.FieldsFunc(inner[:end], func(r rune) bool {
		return !isWordRune(r)
	}) {
		if word == "test" {
			return true
		}
	}

	return false
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// countBraces returns the brace depth change of a line, ignoring
// braces inside string, raw string, and char literals. An unterminated
// literal simply runs to end of line.
func countBraces(line string) int {
	depth := 0
	state := lexCode
	hashCount := 0

	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case lexCode:
			switch ch {
			case '"':
				state = lexString
			case 'r':
				// Raw string r"..." or r#"..."# with any number
				// of hashes.
				j := i + 1
				hashes := 0
				for j < len(runes) && runes[j] == '#' {
					hashes++
					j++
				}

				if j < len(runes) && runes[j] == '"' {
					state = lexRawString
					hashCount = hashes
					i = j
				}
			case '\'':
				// Distinguish a char literal from a lifetime by
				// looking for the closing quote.
				if isCharLiteralStart(runes[i+1:]) {
					state = lexChar
				}
			case '{':
				depth++
			case '}':
				depth--
			}
		case lexString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				state = lexCode
			}
		case lexRawString:
			if ch == '"' {
				matched := 0
				for matched < hashCount && i+1 < len(runes) && runes[i+1] == '#' {
					matched++
					i++
				}

				if matched == hashCount {
					state = lexCode
				}
			}
		case lexChar:
			if ch == '\\' {
				i++
			} else if ch == '\'' {
				state = lexCode
			}
		}
	}

	return depth
}

// isCharLiteralStart reports whether the runes after a ' begin a char
// literal ('x' or '\n') rather than a lifetime ('a, 'static).
func isCharLiteralStart(rest []rune) bool {
	if len(rest) == 0 {
		return false
	}

	if rest[0] == '\\' {
		return len(rest) >= 3 && rest[2] == '\''
	}

	return len(rest) >= 2 && rest[1] == '\''
}
