package escapes

import (
	"fmt"

	"github.com/hatchet-lint/hatchet/internal/config"
	"github.com/hatchet-lint/hatchet/internal/lang"
	m "github.com/hatchet-lint/hatchet/internal/model"
	"github.com/hatchet-lint/hatchet/internal/pattern"
)

// compiledEscape is an escape pattern ready for matching, with its
// advice resolved.
type compiledEscape struct {
	m.EscapePattern

	matcher *pattern.Compiled
}

// mergePatterns combines adapter defaults with user patterns. A user
// pattern replaces the default of the same name; order is defaults
// first, then user patterns.
func mergePatterns(user, defaults []m.EscapePattern) []m.EscapePattern {
	overridden := make(map[string]bool, len(user))
	for _, p := range user {
		overridden[p.Name] = true
	}

	merged := make([]m.EscapePattern, 0, len(defaults)+len(user))

	for _, p := range defaults {
		if !overridden[p.Name] {
			merged = append(merged, p)
		}
	}

	return append(merged, user...)
}

// EffectivePatterns returns the merged pattern set a run would check
// for the given adapter, with default advice filled in.
func EffectivePatterns(cfg *config.Config, adapter lang.Adapter) []m.EscapePattern {
	merged := mergePatterns(cfg.Escapes.Patterns, adapter.DefaultEscapes())

	for i := range merged {
		if merged[i].Advice == "" {
			merged[i].Advice = defaultAdvice(merged[i].Action)
		}
	}

	return merged
}

// compilePatterns builds the matchers once per run. A pattern that
// fails to compile is a configuration error and aborts the run.
func compilePatterns(patterns []m.EscapePattern) ([]compiledEscape, error) {
	compiled := make([]compiledEscape, 0, len(patterns))

	for _, p := range patterns {
		matcher, err := pattern.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
		}

		if p.Advice == "" {
			p.Advice = defaultAdvice(p.Action)
		}

		compiled = append(compiled, compiledEscape{EscapePattern: p, matcher: matcher})
	}

	return compiled, nil
}

// defaultAdvice supplies the fallback violation advice per action.
func defaultAdvice(action m.Action) string {
	switch action {
	case m.ActionForbid:
		return "Remove this escape hatch from production code."
	case m.ActionComment:
		return "Add a justification comment."
	default:
		return "Reduce escape hatch usage."
	}
}

// defaultCommentMarker is required when a comment-action pattern does
// not configure its own marker.
const defaultCommentMarker = "// JUSTIFIED:"

// formatCommentAdvice points the violation at the missing marker unless
// the pattern carries custom advice.
func formatCommentAdvice(custom, marker string) string {
	if custom == "" || custom == defaultAdvice(m.ActionComment) {
		return fmt.Sprintf("Add a %s comment explaining why this is necessary.", marker)
	}

	return custom
}
