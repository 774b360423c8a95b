// Package pattern compiles escape patterns into line matchers.
//
// Most configured patterns are plain substrings or alternations of
// substrings, so compilation picks the cheapest matcher that fits and
// falls back to regexp only when the pattern actually needs it.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// Tier identifies which matcher backs a compiled pattern.
type Tier string

const (
	// TierLiteral is a single substring search.
	TierLiteral Tier = "literal"

	// TierMultiLiteral is an Aho-Corasick automaton over the branches
	// of a pure alternation of literals.
	TierMultiLiteral Tier = "multi-literal"

	// TierRegex is a full regular expression.
	TierRegex Tier = "regex"
)

// regexMetachars are the bytes that make a pattern non-literal.
const regexMetachars = `\.*+?()[]{}^$|`

// Compiled is an immutable compiled pattern, safe for concurrent use.
type Compiled struct {
	raw      string
	tier     Tier
	literal  string
	literals []string
	trie     *ahocorasick.Trie
	re       *regexp.Regexp
}

// Compile builds the cheapest matcher for expr. It returns an error
// only when expr needs the regex tier and does not compile.
func Compile(expr string) (*Compiled, error) {
	if isLiteral(expr) {
		return &Compiled{raw: expr, tier: TierLiteral, literal: expr}, nil
	}

	if branches, ok := splitLiteralAlternation(expr); ok {
		trie := ahocorasick.NewTrieBuilder().AddStrings(branches).Build()

		return &Compiled{raw: expr, tier: TierMultiLiteral, literals: branches, trie: trie}, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}

	return &Compiled{raw: expr, tier: TierRegex, re: re}, nil
}

// String returns the original pattern expression.
func (c *Compiled) String() string { return c.raw }

// Tier reports the matcher tier selected at compile time.
func (c *Compiled) Tier() Tier { return c.tier }

// Matches scans content line by line and returns every non-overlapping
// match with its 1-indexed line and byte span within that line.
func (c *Compiled) Matches(content string) []m.Match {
	var out []m.Match

	for i, line := range strings.Split(content, "\n") {
		out = c.appendLineMatches(out, i+1, line)
	}

	return out
}

// MatchesLine scans a single line, already split from its file.
func (c *Compiled) MatchesLine(lineNumber int, line string) []m.Match {
	return c.appendLineMatches(nil, lineNumber, line)
}

func (c *Compiled) appendLineMatches(out []m.Match, lineNumber int, line string) []m.Match {
	switch c.tier {
	case TierLiteral:
		from := 0
		for {
			idx := strings.Index(line[from:], c.literal)
			if idx < 0 {
				return out
			}

			start := from + idx
			out = append(out, m.Match{Line: lineNumber, Start: start, End: start + len(c.literal)})
			from = start + len(c.literal)
		}

	case TierMultiLiteral:
		prevEnd := 0
		for _, hit := range c.trie.MatchString(line) {
			start := int(hit.Pos())
			end := start + len(hit.Match())
			if start < prevEnd {
				continue
			}

			out = append(out, m.Match{Line: lineNumber, Start: start, End: end})
			prevEnd = end
		}

		return out

	default:
		for _, span := range c.re.FindAllStringIndex(line, -1) {
			out = append(out, m.Match{Line: lineNumber, Start: span[0], End: span[1]})
		}

		return out
	}
}

func isLiteral(expr string) bool {
	return !strings.ContainsAny(expr, regexMetachars)
}

// splitLiteralAlternation recognizes patterns like "todo|fixme|hack":
// the only metachar present is '|' and every branch is a non-empty
// literal.
func splitLiteralAlternation(expr string) ([]string, bool) {
	if !strings.Contains(expr, "|") {
		return nil, false
	}

	if strings.ContainsAny(expr, strings.ReplaceAll(regexMetachars, "|", "")) {
		return nil, false
	}

	branches := strings.Split(expr, "|")
	for _, b := range branches {
		if b == "" {
			return nil, false
		}
	}

	return branches, true
}
