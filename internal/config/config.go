// Package config defines the typed view of hatchet.toml. The structs
// are populated through viper and normalized once before a run.
package config

import (
	"fmt"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// CheckLevel controls how escape check failures are reported.
type CheckLevel string

const (
	CheckError CheckLevel = "error"
	CheckWarn  CheckLevel = "warn"
	CheckOff   CheckLevel = "off"
)

// Config is the root of hatchet.toml.
type Config struct {
	// Version must be 1.
	Version int `mapstructure:"version"`

	Project ProjectConfig `mapstructure:"project"`
	Escapes EscapesConfig `mapstructure:"escapes"`

	Rust       LanguageConfig `mapstructure:"rust"`
	Go         LanguageConfig `mapstructure:"go"`
	Python     LanguageConfig `mapstructure:"python"`
	JavaScript LanguageConfig `mapstructure:"javascript"`
	Ruby       LanguageConfig `mapstructure:"ruby"`
	Shell      LanguageConfig `mapstructure:"shell"`
	Generic    LanguageConfig `mapstructure:"generic"`
}

// ProjectConfig carries project-wide settings.
type ProjectConfig struct {
	// Language forces the adapter instead of marker-file detection.
	Language string `mapstructure:"language"`

	// Packages lists package roots for per-package metrics, either
	// exact ("tools/gen") or single-level globs ("crates/*"). When
	// empty, the adapter's own workspace detection applies.
	Packages []string `mapstructure:"packages"`
}

// EscapesConfig configures the escape hatch check.
type EscapesConfig struct {
	// Check is the failure level: error, warn, or off.
	Check CheckLevel `mapstructure:"check"`

	// Patterns override adapter defaults by name.
	Patterns []m.EscapePattern `mapstructure:"patterns"`
}

// LanguageConfig is the per-language section.
type LanguageConfig struct {
	// Source, Tests, and Ignore override the adapter's classification
	// globs when non-empty.
	Source []string `mapstructure:"source"`
	Tests  []string `mapstructure:"tests"`
	Ignore []string `mapstructure:"ignore"`

	Suppress SuppressConfig `mapstructure:"suppress"`
	Policy   PolicyConfig   `mapstructure:"policy"`
}

// SuppressLevel is the enforcement level for lint suppressions.
type SuppressLevel string

const (
	SuppressForbid  SuppressLevel = "forbid"
	SuppressComment SuppressLevel = "comment"
	SuppressAllow   SuppressLevel = "allow"
)

// SuppressConfig controls lint suppression directive checking.
type SuppressConfig struct {
	// Check is the base level, defaulting to comment.
	Check SuppressLevel `mapstructure:"check"`

	// Comment is the required justification marker. Empty accepts any
	// comment.
	Comment string `mapstructure:"comment"`

	Source SuppressScopeConfig `mapstructure:"source"`
	Test   SuppressScopeConfig `mapstructure:"test"`
}

// SuppressScopeConfig refines suppression checking for one scope.
type SuppressScopeConfig struct {
	// Check overrides the base level for this scope when non-empty.
	Check SuppressLevel `mapstructure:"check"`

	// Allow lists codes that never require a comment.
	Allow []string `mapstructure:"allow"`

	// Forbid lists codes that may not be suppressed at all. A
	// "prefix::" entry forbids every code under that prefix.
	Forbid []string `mapstructure:"forbid"`

	// Patterns maps a lint code to the comment prefixes accepted as
	// its justification; any one of them qualifies.
	Patterns map[string][]string `mapstructure:"patterns"`
}

// PolicyConfig is the lint-config change policy.
type PolicyConfig struct {
	// Check overrides the escapes check level for policy violations.
	// Empty inherits escapes.check.
	Check CheckLevel `mapstructure:"check"`

	// LintChanges set to "standalone" requires lint config changes to
	// ship without source changes.
	LintChanges string `mapstructure:"lint_changes"`

	// LintConfig overrides the adapter's lint config filename list.
	LintConfig []string `mapstructure:"lint_config"`
}

// LintChangesStandalone is the only lint_changes mode that enforces
// anything.
const LintChangesStandalone = "standalone"

// defaultSourcePatterns are the per-code justification markers applied
// to source scope unless the user supplies their own for the code.
var defaultSourcePatterns = map[string][]string{
	"dead_code": {
		"// KEEP UNTIL:",
		"// NOTE(compat):",
		"// NOTE(compatibility):",
		"// NOTE(lifetime):",
	},
	"clippy::too_many_arguments":       {"// TODO(refactor):"},
	"clippy::cast_possible_truncation": {"// CORRECTNESS:", "// SAFETY:"},
	"deprecated": {
		"// TODO(refactor):",
		"// NOTE(compat):",
		"// NOTE(compatibility):",
	},
}

// Normalize validates the config and fills defaults. It is called once
// after unmarshalling.
func (c *Config) Normalize() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (want 1)", c.Version)
	}

	switch c.Escapes.Check {
	case "":
		c.Escapes.Check = CheckError
	case CheckError, CheckWarn, CheckOff:
	default:
		return fmt.Errorf("invalid escapes.check %q", c.Escapes.Check)
	}

	for i := range c.Escapes.Patterns {
		p := &c.Escapes.Patterns[i]

		if p.Pattern == "" {
			return fmt.Errorf("escapes.patterns[%d]: pattern is required", i)
		}

		if p.Name == "" {
			p.Name = p.Pattern
		}

		if p.Action == "" {
			p.Action = m.ActionForbid
		}

		if !validAction(p.Action) {
			return fmt.Errorf("pattern %s: invalid action %q", p.Name, p.Action)
		}

		if p.InTests != "" && !validAction(p.InTests) && p.InTests != m.ActionAllow {
			return fmt.Errorf("pattern %s: invalid in_tests %q", p.Name, p.InTests)
		}
	}

	for name, lc := range map[string]*LanguageConfig{
		"rust": &c.Rust, "go": &c.Go, "python": &c.Python,
		"javascript": &c.JavaScript, "ruby": &c.Ruby,
		"shell": &c.Shell, "generic": &c.Generic,
	} {
		if err := lc.normalize(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func (lc *LanguageConfig) normalize() error {
	s := &lc.Suppress

	switch s.Check {
	case "":
		s.Check = SuppressComment
	case SuppressForbid, SuppressComment, SuppressAllow:
	default:
		return fmt.Errorf("invalid suppress.check %q", s.Check)
	}

	if err := s.Source.normalize("source"); err != nil {
		return err
	}

	if err := s.Test.normalize("test"); err != nil {
		return err
	}

	// Source scope picks up the built-in per-code markers; test scope
	// allows suppressions unless the user says otherwise.
	if s.Source.Patterns == nil {
		s.Source.Patterns = map[string][]string{}
	}
	for code, markers := range defaultSourcePatterns {
		if _, ok := s.Source.Patterns[code]; !ok {
			s.Source.Patterns[code] = markers
		}
	}

	if s.Test.Check == "" {
		s.Test.Check = SuppressAllow
	}

	if lc.Policy.LintChanges != "" && lc.Policy.LintChanges != LintChangesStandalone {
		return fmt.Errorf("invalid policy.lint_changes %q", lc.Policy.LintChanges)
	}

	switch lc.Policy.Check {
	case "", CheckError, CheckWarn, CheckOff:
	default:
		return fmt.Errorf("invalid policy.check %q", lc.Policy.Check)
	}

	return nil
}

func (sc *SuppressScopeConfig) normalize(scope string) error {
	switch sc.Check {
	case "", SuppressForbid, SuppressComment, SuppressAllow:
		return nil
	default:
		return fmt.Errorf("invalid suppress.%s.check %q", scope, sc.Check)
	}
}

// Language returns the section for an adapter name. Unknown names get
// the generic section.
func (c *Config) Language(name string) *LanguageConfig {
	switch name {
	case "rust":
		return &c.Rust
	case "go":
		return &c.Go
	case "python":
		return &c.Python
	case "javascript":
		return &c.JavaScript
	case "ruby":
		return &c.Ruby
	case "shell":
		return &c.Shell
	default:
		return &c.Generic
	}
}

// PolicyCheckLevel resolves the check level for lint policy violations
// in a language: the language's policy override when set, otherwise
// the escapes level.
func (c *Config) PolicyCheckLevel(language string) CheckLevel {
	if check := c.Language(language).Policy.Check; check != "" {
		return check
	}

	return c.Escapes.Check
}

// ScopeCheck resolves the effective suppress level for a scope: the
// scope override when set, otherwise the base check.
func (s *SuppressConfig) ScopeCheck(scope *SuppressScopeConfig) SuppressLevel {
	if scope.Check != "" {
		return scope.Check
	}

	return s.Check
}

func validAction(a m.Action) bool {
	return a == m.ActionCount || a == m.ActionComment || a == m.ActionForbid
}
