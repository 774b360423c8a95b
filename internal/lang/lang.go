// Package lang provides language adapters: per-language file
// classification, default escape patterns, lint suppression parsing,
// and workspace layout detection.
package lang

import (
	"strings"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// Adapter is the per-language behavior the check engine depends on.
type Adapter interface {
	// Name is the language key used in config and output
	// ("rust", "go", "python", "javascript", "ruby", "shell",
	// "generic").
	Name() string

	// Extensions lists the file extensions this language claims.
	Extensions() []string

	// Classify decides whether a path is source, test, or neither.
	// Ignore globs win, then test globs, then source globs.
	Classify(path m.Path) m.FileKind

	// DefaultEscapes returns the built-in escape patterns for this
	// language. User config patterns override them by name.
	DefaultEscapes() []m.EscapePattern

	// DefaultLintConfigs lists the lint tool config filenames that
	// trigger the standalone change policy.
	DefaultLintConfigs() []string

	// ParseSuppressions extracts lint suppression directives from
	// file content. The marker, when non-empty, is the justification
	// comment pattern directives are expected to carry.
	ParseSuppressions(content string, marker string) []m.SuppressDirective
}

// WorkspaceDetector is implemented by adapters whose ecosystem has a
// multi-package layout worth reporting per-package metrics for.
type WorkspaceDetector interface {
	DetectWorkspace(fs a.SourceFSAdapter, root m.Path) *m.Workspace
}

// InlineTestAnalyzer is implemented by adapters whose language embeds
// test code inside source files (Rust's #[cfg(test)] blocks).
type InlineTestAnalyzer interface {
	// InlineTestLines reports which lines of content are test code.
	InlineTestLines(content string) InlineTests
}

// InlineTests answers whether a given line sits inside an inline test
// block.
type InlineTests interface {
	// IsTestLine takes a 0-indexed line number.
	IsTestLine(line int) bool
}

// Options carries classification globs resolved from config. Empty
// slices keep the adapter defaults.
type Options struct {
	Source []string
	Tests  []string
	Ignore []string
}

// pick returns override when set, otherwise defaults.
func pick(override, defaults []string) []string {
	if len(override) > 0 {
		return override
	}

	return defaults
}

// Detect picks the project language from marker files at root, in
// priority order. Shell is detected from *.sh files in the root, bin/,
// or scripts/ directories.
func Detect(fs a.SourceFSAdapter, root m.Path) string {
	exists := func(name string) bool {
		return fs.FileExists(fs.JoinPath(string(root), name))
	}

	if exists("Cargo.toml") {
		return "rust"
	}

	if exists("go.mod") {
		return "go"
	}

	if exists("package.json") || exists("tsconfig.json") || exists("jsconfig.json") {
		return "javascript"
	}

	if exists("pyproject.toml") || exists("setup.py") || exists("setup.cfg") {
		return "python"
	}

	if exists("Gemfile") || exists("Rakefile") {
		return "ruby"
	}

	if hasShellMarkers(fs, root) {
		return "shell"
	}

	return "generic"
}

// New constructs the adapter for a detected language name.
func New(name string, opts Options) Adapter {
	switch name {
	case "rust":
		return NewRust(opts)
	case "go":
		return NewGo(opts)
	case "python":
		return NewPython(opts)
	case "javascript":
		return NewJavaScript(opts)
	case "ruby":
		return NewRuby(opts)
	case "shell":
		return NewShell(opts)
	default:
		return NewGeneric(opts)
	}
}

func hasShellMarkers(fs a.SourceFSAdapter, root m.Path) bool {
	for _, dir := range []string{".", "bin", "scripts"} {
		entries, err := fs.ListDir(fs.JoinPath(string(root), dir))
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir && strings.HasSuffix(entry.Name, ".sh") {
				return true
			}
		}
	}

	return false
}
