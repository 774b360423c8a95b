package escapes

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

func TestMergePatterns(t *testing.T) {
	defaults := []m.EscapePattern{
		{Name: "unsafe", Pattern: `unsafe\s*\{`, Action: m.ActionComment},
		{Name: "transmute", Pattern: "transmute", Action: m.ActionForbid},
	}

	t.Run("defaults pass through untouched", func(t *testing.T) {
		merged := mergePatterns(nil, defaults)

		require.Equal(t, defaults, merged)
	})

	t.Run("user pattern replaces default of same name", func(t *testing.T) {
		user := []m.EscapePattern{
			{Name: "unsafe", Pattern: "unsafe", Action: m.ActionCount, Threshold: 5},
		}

		merged := mergePatterns(user, defaults)

		require.Len(t, merged, 2)
		require.Equal(t, "transmute", merged[0].Name)
		require.Equal(t, m.ActionCount, merged[1].Action)
		require.Equal(t, 5, merged[1].Threshold)
	})

	t.Run("unrelated user patterns append after defaults", func(t *testing.T) {
		user := []m.EscapePattern{
			{Name: "todo", Pattern: "TODO", Action: m.ActionCount},
		}

		merged := mergePatterns(user, defaults)

		require.Equal(t, []string{"unsafe", "transmute", "todo"}, patternNames(merged))
	})
}

func patternNames(patterns []m.EscapePattern) []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Name
	}

	return names
}

func TestCompilePatterns(t *testing.T) {
	t.Run("fills default advice per action", func(t *testing.T) {
		compiled, err := compilePatterns([]m.EscapePattern{
			{Name: "a", Pattern: "x", Action: m.ActionForbid},
			{Name: "b", Pattern: "y", Action: m.ActionComment},
			{Name: "c", Pattern: "z", Action: m.ActionCount},
			{Name: "d", Pattern: "w", Action: m.ActionForbid, Advice: "custom"},
		})
		require.NoError(t, err)

		require.Equal(t, "Remove this escape hatch from production code.", compiled[0].Advice)
		require.Equal(t, "Add a justification comment.", compiled[1].Advice)
		require.Equal(t, "Reduce escape hatch usage.", compiled[2].Advice)
		require.Equal(t, "custom", compiled[3].Advice)
	})

	t.Run("invalid regex aborts", func(t *testing.T) {
		_, err := compilePatterns([]m.EscapePattern{
			{Name: "broken", Pattern: "eval[(", Action: m.ActionForbid},
		})

		require.Error(t, err)
		require.Contains(t, err.Error(), "broken")
	})
}

func TestFormatCommentAdvice(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		marker string
		want   string
	}{
		{
			name:   "empty advice names the marker",
			custom: "",
			marker: "// SAFETY:",
			want:   "Add a // SAFETY: comment explaining why this is necessary.",
		},
		{
			name:   "default comment advice names the marker",
			custom: "Add a justification comment.",
			marker: "# OK:",
			want:   "Add a # OK: comment explaining why this is necessary.",
		},
		{
			name:   "custom advice wins",
			custom: "Document the invariant first.",
			marker: "// SAFETY:",
			want:   "Document the invariant first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatCommentAdvice(tt.custom, tt.marker))
		})
	}
}
