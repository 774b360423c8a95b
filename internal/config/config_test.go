package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

func TestNormalize_Defaults(t *testing.T) {
	cfg := Config{Version: 1}

	require.NoError(t, cfg.Normalize())
	require.Equal(t, CheckError, cfg.Escapes.Check)
	require.Equal(t, SuppressComment, cfg.Rust.Suppress.Check)
	require.Equal(t, SuppressAllow, cfg.Rust.Suppress.Test.Check)
	require.Contains(t, cfg.Rust.Suppress.Source.Patterns, "dead_code")
}

func TestNormalize_VersionRequired(t *testing.T) {
	cfg := Config{Version: 2}
	require.Error(t, cfg.Normalize())
}

func TestNormalize_PatternDefaults(t *testing.T) {
	cfg := Config{
		Version: 1,
		Escapes: EscapesConfig{
			Patterns: []m.EscapePattern{{Pattern: `\.unwrap\(\)`}},
		},
	}

	require.NoError(t, cfg.Normalize())
	require.Equal(t, `\.unwrap\(\)`, cfg.Escapes.Patterns[0].Name)
	require.Equal(t, m.ActionForbid, cfg.Escapes.Patterns[0].Action)
}

func TestNormalize_Invalid(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"bad check level", Config{Version: 1, Escapes: EscapesConfig{Check: "loud"}}},
		{"missing pattern text", Config{Version: 1, Escapes: EscapesConfig{
			Patterns: []m.EscapePattern{{Name: "x"}},
		}}},
		{"bad action", Config{Version: 1, Escapes: EscapesConfig{
			Patterns: []m.EscapePattern{{Pattern: "x", Action: "explode"}},
		}}},
		{"bad in_tests", Config{Version: 1, Escapes: EscapesConfig{
			Patterns: []m.EscapePattern{{Pattern: "x", InTests: "sometimes"}},
		}}},
		{"bad suppress check", Config{Version: 1, Go: LanguageConfig{
			Suppress: SuppressConfig{Check: "maybe"},
		}}},
		{"bad lint_changes", Config{Version: 1, Rust: LanguageConfig{
			Policy: PolicyConfig{LintChanges: "together"},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			require.Error(t, cfg.Normalize())
		})
	}
}

func TestNormalize_UserScopePatternsKept(t *testing.T) {
	cfg := Config{Version: 1}
	cfg.Rust.Suppress.Source.Patterns = map[string][]string{
		"dead_code": {"// WHY:"},
	}

	require.NoError(t, cfg.Normalize())
	require.Equal(t, []string{"// WHY:"}, cfg.Rust.Suppress.Source.Patterns["dead_code"])
	require.Contains(t, cfg.Rust.Suppress.Source.Patterns, "deprecated")
}

func TestLanguage(t *testing.T) {
	cfg := Config{Version: 1}
	cfg.Go.Tests = []string{"**/*_it.go"}
	require.NoError(t, cfg.Normalize())

	require.Equal(t, []string{"**/*_it.go"}, cfg.Language("go").Tests)
	require.Same(t, &cfg.Generic, cfg.Language("cobol"))
}

func TestScopeCheck(t *testing.T) {
	s := SuppressConfig{Check: SuppressForbid}

	require.Equal(t, SuppressForbid, s.ScopeCheck(&SuppressScopeConfig{}))
	require.Equal(t, SuppressAllow, s.ScopeCheck(&SuppressScopeConfig{Check: SuppressAllow}))
}
