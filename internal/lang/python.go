package lang

import (
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// pythonEscapes are the built-in escape patterns for Python. Debugger
// patterns stay forbidden even in test code.
var pythonEscapes = []m.EscapePattern{
	{
		Name:    "breakpoint",
		Pattern: `\bbreakpoint\s*\(`,
		Action:  m.ActionForbid,
		Advice:  "Remove breakpoint() before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "pdb_set_trace",
		Pattern: `\bpdb\.set_trace\s*\(`,
		Action:  m.ActionForbid,
		Advice:  "Remove pdb.set_trace() before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "import_pdb",
		Pattern: `^\s*import\s+pdb\b`,
		Action:  m.ActionForbid,
		Advice:  "Remove import pdb before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "from_pdb",
		Pattern: `^\s*from\s+pdb\s+import\b`,
		Action:  m.ActionForbid,
		Advice:  "Remove pdb import before committing.",
		InTests: m.ActionForbid,
	},
	{
		Name:    "eval",
		Pattern: `\beval\s*\(`,
		Action:  m.ActionComment,
		Comment: "# EVAL:",
		Advice:  "Add a # EVAL: comment explaining why eval is necessary.",
	},
	{
		Name:    "exec",
		Pattern: `\bexec\s*\(`,
		Action:  m.ActionComment,
		Comment: "# EXEC:",
		Advice:  "Add a # EXEC: comment explaining why exec is necessary.",
	},
	{
		Name:    "__import__",
		Pattern: `\b__import__\s*\(`,
		Action:  m.ActionComment,
		Comment: "# DYNAMIC:",
		Advice:  "Add a # DYNAMIC: comment explaining why __import__ is necessary.",
	},
	{
		Name:    "compile",
		Pattern: `\bcompile\s*\(`,
		Action:  m.ActionComment,
		Comment: "# DYNAMIC:",
		Advice:  "Add a # DYNAMIC: comment explaining why compile is necessary for code execution.",
	},
}

var setupPyNameRe = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)

// Python is the language adapter for Python projects.
type Python struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewPython constructs the Python adapter.
func NewPython(opts Options) *Python {
	return &Python{
		source: buildGlobSet(pick(opts.Source, []string{"**/*.py"})),
		tests: buildGlobSet(pick(opts.Tests, []string{
			"tests/**/*.py",
			"**/tests/**/*.py",
			"test/**/*.py",
			"**/test/**/*.py",
			"**/test_*.py",
			"**/*_test.py",
			"**/conftest.py",
		})),
		ignore: buildGlobSet(pick(opts.Ignore, []string{
			".venv/**",
			"venv/**",
			".env/**",
			"env/**",
			"**/__pycache__/**",
			".mypy_cache/**",
			".pytest_cache/**",
			".ruff_cache/**",
			"dist/**",
			"build/**",
			"**/*.egg-info/**",
			".tox/**",
			".nox/**",
		})),
	}
}

func (p *Python) Name() string { return "python" }

func (p *Python) Extensions() []string { return []string{"py"} }

func (p *Python) Classify(path m.Path) m.FileKind {
	if p.ignore.Match(path) || hasEggInfoSegment(path) {
		return m.FileKindOther
	}

	if p.tests.Match(path) {
		return m.FileKindTest
	}

	if p.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

// hasEggInfoSegment catches packaging metadata dirs anywhere in the
// path, which glob patterns rooted at ** can miss at the top level.
func hasEggInfoSegment(path m.Path) bool {
	for _, part := range strings.Split(string(path), "/") {
		if part == "__pycache__" || strings.HasSuffix(part, ".egg-info") {
			return true
		}
	}

	return false
}

func (p *Python) DefaultEscapes() []m.EscapePattern { return pythonEscapes }

func (p *Python) DefaultLintConfigs() []string {
	return []string{
		"ruff.toml", ".ruff.toml",
		".flake8",
		".pylintrc", "pylintrc",
		"mypy.ini", ".mypy.ini",
		"pyproject.toml",
		"setup.cfg",
	}
}

// ParseSuppressions finds noqa, type: ignore, pylint: disable, and
// pragma: no cover directives.
func (p *Python) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		pos := strings.Index(trimmed, "#")
		if pos < 0 {
			continue
		}

		body := strings.TrimSpace(strings.TrimLeft(trimmed[pos:], "#"))

		d, ok := parsePythonDirective(body)
		if !ok {
			continue
		}

		d.Line = i + 1
		d.HasComment, d.CommentText = checkJustificationComment(lines, i, marker, pythonCommentStyle)
		out = append(out, d)
	}

	return out
}

func parsePythonDirective(body string) (m.SuppressDirective, bool) {
	lower := strings.ToLower(body)

	switch {
	case strings.HasPrefix(lower, "noqa"):
		rest := body[len("noqa"):]

		var codes []string
		switch {
		case strings.HasPrefix(rest, ":"):
			codes = parsePythonCodes(rest[1:], ",")
		case rest == "" || startsWithSpace(rest):
			// blanket noqa
		default:
			return m.SuppressDirective{}, false
		}

		display := "# noqa"
		if len(codes) > 0 {
			display += ": " + strings.Join(codes, ", ")
		}

		return m.SuppressDirective{Tool: m.SuppressToolNoqa, Codes: codes, Display: display}, true

	case strings.HasPrefix(lower, "type: ignore"), strings.HasPrefix(lower, "type:ignore"):
		rest := body[len("type:ignore"):]
		if strings.HasPrefix(lower, "type: ignore") {
			rest = body[len("type: ignore"):]
		}

		var codes []string
		if open := strings.Index(rest, "["); open >= 0 {
			if close := strings.Index(rest, "]"); close > open {
				codes = parsePythonCodes(rest[open+1:close], ",")
			}
		}

		display := "# type: ignore"
		if len(codes) > 0 {
			display += "[" + strings.Join(codes, ", ") + "]"
		}

		return m.SuppressDirective{Tool: m.SuppressToolTypeIgnore, Codes: codes, Display: display}, true

	case strings.HasPrefix(lower, "pylint: disable="), strings.HasPrefix(lower, "pylint:disable="):
		rest := body[strings.Index(body, "=")+1:]

		codes := parsePythonCodes(rest, ",")
		if len(codes) == 0 {
			return m.SuppressDirective{}, false
		}

		return m.SuppressDirective{
			Tool:    m.SuppressToolPylint,
			Codes:   codes,
			Display: "# pylint: disable=" + strings.Join(codes, ","),
		}, true

	case strings.HasPrefix(lower, "pragma: no cover"), strings.HasPrefix(lower, "pragma:no cover"):
		return m.SuppressDirective{
			Tool:    m.SuppressToolPragma,
			Codes:   []string{"coverage"},
			Display: "# pragma: no cover",
		}, true
	}

	return m.SuppressDirective{}, false
}

// parsePythonCodes splits a code list, dropping anything after a
// trailing # comment.
func parsePythonCodes(s, sep string) []string {
	if idx := strings.Index(s, "#"); idx >= 0 {
		s = s[:idx]
	}

	return splitCodes(s, sep)
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t')
}

// DetectWorkspace extracts the project name from pyproject.toml or
// setup.py and locates the package directory under src-layout or
// flat-layout.
func (p *Python) DetectWorkspace(fs a.SourceFSAdapter, root m.Path) *m.Workspace {
	name := pythonProjectName(fs, root)
	if name == "" {
		return nil
	}

	pkgDir := strings.ReplaceAll(name, "-", "_")

	if fs.FileExists(fs.JoinPath(string(root), "src", pkgDir, "__init__.py")) {
		return &m.Workspace{Packages: []m.Package{{Name: name, Root: m.Path("src/" + pkgDir)}}}
	}

	if fs.FileExists(fs.JoinPath(string(root), pkgDir, "__init__.py")) {
		return &m.Workspace{Packages: []m.Package{{Name: name, Root: m.Path(pkgDir)}}}
	}

	return &m.Workspace{Packages: []m.Package{{Name: name, Root: ""}}}
}

type pyprojectManifest struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// parsePyprojectName reads [project].name per PEP 621.
func parsePyprojectName(content string) string {
	var manifest pyprojectManifest
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return ""
	}

	return manifest.Project.Name
}

func pythonProjectName(fs a.SourceFSAdapter, root m.Path) string {
	if raw, err := fs.ReadFile(fs.JoinPath(string(root), "pyproject.toml")); err == nil {
		if name := parsePyprojectName(string(raw)); name != "" {
			return name
		}
	}

	if raw, err := fs.ReadFile(fs.JoinPath(string(root), "setup.py")); err == nil {
		if match := setupPyNameRe.FindStringSubmatch(string(raw)); match != nil {
			return match[1]
		}
	}

	return ""
}
