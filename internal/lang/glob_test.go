package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleStarVariants(t *testing.T) {
	cases := []struct {
		pattern string
		want    []string
	}{
		{"src/*.go", []string{"src/*.go"}},
		{"**/*.rs", []string{"**/*.rs", "*.rs"}},
		{
			"**/tests/**/*.py",
			[]string{"**/tests/**/*.py", "tests/**/*.py", "**/tests/*.py", "tests/*.py"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			require.ElementsMatch(t, tc.want, doubleStarVariants(tc.pattern))
		})
	}
}

func TestGlobSet_ZeroComponentDoubleStar(t *testing.T) {
	set := buildGlobSet([]string{"**/tests/**/*.py"})

	require.True(t, set.Match("tests/test_api.py"))
	require.True(t, set.Match("pkg/tests/test_api.py"))
	require.True(t, set.Match("pkg/tests/unit/test_api.py"))
	require.False(t, set.Match("pkg/test_api.py"))
}

func TestGlobSet_InvalidPatternIsSkipped(t *testing.T) {
	set := buildGlobSet([]string{"[", "**/*.go"})

	require.True(t, set.Match("cmd/main.go"))
	require.False(t, set.Match("cmd/main.rs"))
}
