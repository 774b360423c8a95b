package pattern

import (
	"testing"

	m "github.com/hatchet-lint/hatchet/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCompile_TierSelection(t *testing.T) {
	tests := []struct {
		expr string
		tier Tier
	}{
		{"todo!", TierLiteral},
		{".unwrap()", TierRegex},
		{"panic|unreachable|todo", TierMultiLiteral},
		{`unsafe\s*\{`, TierRegex},
		{"a||b", TierRegex},
		{`eval\(`, TierRegex},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			compiled, err := Compile(tc.expr)
			require.NoError(t, err)
			require.Equal(t, tc.tier, compiled.Tier())
		})
	}
}

func TestCompile_InvalidRegex(t *testing.T) {
	_, err := Compile(`unsafe\s*\{(`)
	require.Error(t, err)
}

func TestMatches_Literal(t *testing.T) {
	compiled, err := Compile("todo!")
	require.NoError(t, err)

	content := "fn main() {\n    todo!()\n}\n// todo! todo!\n"

	matches := compiled.Matches(content)
	require.Equal(t, []m.Match{
		{Line: 2, Start: 4, End: 9},
		{Line: 4, Start: 3, End: 8},
		{Line: 4, Start: 9, End: 14},
	}, matches)
}

func TestMatches_LiteralNoHit(t *testing.T) {
	compiled, err := Compile("todo!")
	require.NoError(t, err)
	require.Empty(t, compiled.Matches("fn main() {}\n"))
}

func TestMatches_MultiLiteral(t *testing.T) {
	compiled, err := Compile("panic|unreachable|todo")
	require.NoError(t, err)
	require.Equal(t, TierMultiLiteral, compiled.Tier())

	content := "fn f() {\n    panic!(\"boom\")\n    todo!()\n}\n"

	matches := compiled.Matches(content)
	require.Equal(t, []m.Match{
		{Line: 2, Start: 4, End: 9},
		{Line: 3, Start: 4, End: 8},
	}, matches)
}

func TestMatches_MultiLiteralOverlapsAreDropped(t *testing.T) {
	compiled, err := Compile("abc|bcd")
	require.NoError(t, err)

	matches := compiled.Matches("xabcdx")
	require.Len(t, matches, 1)
	require.Equal(t, m.Match{Line: 1, Start: 1, End: 4}, matches[0])
}

func TestMatches_Regex(t *testing.T) {
	compiled, err := Compile(`unsafe\s*\{`)
	require.NoError(t, err)

	content := "fn f() {\n    unsafe {\n        ptr.read()\n    }\n    unsafe{ x }\n}\n"

	matches := compiled.Matches(content)
	require.Equal(t, []m.Match{
		{Line: 2, Start: 4, End: 13},
		{Line: 5, Start: 4, End: 11},
	}, matches)
}

func TestMatches_RegexDoesNotCrossLines(t *testing.T) {
	compiled, err := Compile(`unsafe\s*\{`)
	require.NoError(t, err)

	// The brace is on the next line, so \s* must not bridge it.
	require.Empty(t, compiled.Matches("unsafe\n{\n"))
}

func TestMatchesLine_KeepsLineNumber(t *testing.T) {
	compiled, err := Compile("eval")
	require.NoError(t, err)

	matches := compiled.MatchesLine(42, "eval(code)")
	require.Equal(t, []m.Match{{Line: 42, Start: 0, End: 4}}, matches)
}
