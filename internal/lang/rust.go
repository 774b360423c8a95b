package lang

import (
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// rustEscapes are the built-in escape patterns for Rust.
//
// .unwrap() and .expect() are deliberately absent: Clippy's
// unwrap_used and expect_used lints cover those.
var rustEscapes = []m.EscapePattern{
	{
		Name:    "unsafe",
		Pattern: `unsafe\s*\{`,
		Action:  m.ActionComment,
		Comment: "// SAFETY:",
		Advice:  "Add a // SAFETY: comment explaining the invariants.",
	},
	{
		Name:    "transmute",
		Pattern: `mem::transmute`,
		Action:  m.ActionComment,
		Comment: "// SAFETY:",
		Advice:  "Add a // SAFETY: comment explaining type compatibility.",
	},
}

var defaultRustTests = []string{
	"**/tests/**",
	"**/test/**/*.rs",
	"**/benches/**",
	"**/*_test.rs",
	"**/*_tests.rs",
}

// Rust is the language adapter for Cargo projects.
type Rust struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewRust constructs the Rust adapter.
func NewRust(opts Options) *Rust {
	return &Rust{
		source: buildGlobSet(pick(opts.Source, []string{"**/*.rs"})),
		tests:  buildGlobSet(pick(opts.Tests, defaultRustTests)),
		ignore: buildGlobSet(pick(opts.Ignore, []string{"target/**"})),
	}
}

func (r *Rust) Name() string { return "rust" }

func (r *Rust) Extensions() []string { return []string{"rs"} }

func (r *Rust) Classify(path m.Path) m.FileKind {
	if r.ignore.Match(path) {
		return m.FileKindOther
	}

	if r.tests.Match(path) {
		return m.FileKindTest
	}

	if r.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

func (r *Rust) DefaultEscapes() []m.EscapePattern { return rustEscapes }

func (r *Rust) DefaultLintConfigs() []string {
	return []string{"rustfmt.toml", ".rustfmt.toml", "clippy.toml", ".clippy.toml"}
}

// ParseSuppressions finds #[allow(...)] and #[expect(...)] attributes,
// including the inner #![...] forms. Attributes may span lines, so an
// opening without a closing )] starts a pending buffer that accumulates
// until the attribute closes; the directive is reported at the opening
// line.
func (r *Rust) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	var pending string

	pendingStart := 0

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		attrLine := i

		if pending != "" {
			pending += " " + trimmed
			if !strings.Contains(pending, ")]") {
				continue
			}

			trimmed = pending
			attrLine = pendingStart
			pending = ""
		} else if isSuppressAttrStart(trimmed) && !strings.Contains(trimmed, ")]") {
			pending = trimmed
			pendingStart = i

			continue
		}

		tool, codes, ok := parseSuppressAttr(trimmed)
		if !ok {
			continue
		}

		hasComment, text := checkJustificationComment(lines, attrLine, marker, rustCommentStyle)

		display := "#[" + string(tool) + "(" + firstOr(codes, "unknown") + ")]"

		out = append(out, m.SuppressDirective{
			Line:        attrLine + 1,
			Tool:        tool,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     display,
		})
	}

	return out
}

// InlineTestLines implements InlineTestAnalyzer using the cfg(test)
// block scanner.
func (r *Rust) InlineTestLines(content string) InlineTests {
	return parseCfgTest(content)
}

// isSuppressAttrStart reports whether a trimmed line opens an allow or
// expect attribute.
func isSuppressAttrStart(line string) bool {
	_, ok := suppressAttrTool(line)

	return ok
}

func suppressAttrTool(line string) (m.SuppressTool, bool) {
	switch {
	case strings.HasPrefix(line, "#[allow(") || strings.HasPrefix(line, "#![allow("):
		return m.SuppressToolRustAllow, true
	case strings.HasPrefix(line, "#[expect(") || strings.HasPrefix(line, "#![expect("):
		return m.SuppressToolRustExpect, true
	default:
		return "", false
	}
}

func parseSuppressAttr(line string) (m.SuppressTool, []string, bool) {
	tool, ok := suppressAttrTool(line)
	if !ok {
		return "", nil, false
	}

	start := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if strings.Contains(line, ")]") {
		end = strings.Index(line, ")]")
	}

	if start < 0 || end <= start+1 {
		return "", nil, false
	}

	codes := splitCodes(line[start+1:end], ",")

	return tool, codes, true
}

// splitCodes splits on sep, trims, and drops empties.
func splitCodes(s, sep string) []string {
	var codes []string

	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			codes = append(codes, part)
		}
	}

	return codes
}

func firstOr(codes []string, fallback string) string {
	if len(codes) > 0 {
		return codes[0]
	}

	return fallback
}

// cargoManifest is the subset of Cargo.toml we read.
type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// DetectWorkspace reads Cargo.toml at root. Workspace members may be
// explicit paths or single-level ("crates/*") and recursive
// ("crates/**") globs; each member's own Cargo.toml supplies the
// package name. A member pattern that matches nothing is skipped.
func (r *Rust) DetectWorkspace(fs a.SourceFSAdapter, root m.Path) *m.Workspace {
	raw, err := fs.ReadFile(fs.JoinPath(string(root), "Cargo.toml"))
	if err != nil {
		return nil
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return nil
	}

	if len(manifest.Workspace.Members) == 0 {
		if manifest.Package.Name == "" {
			return nil
		}

		return &m.Workspace{
			Packages: []m.Package{{Name: manifest.Package.Name, Root: ""}},
		}
	}

	ws := &m.Workspace{IsWorkspace: true}

	for _, member := range manifest.Workspace.Members {
		for _, dir := range expandMemberPattern(fs, root, member) {
			name := cargoPackageName(fs, root, dir)
			if name == "" {
				continue
			}

			ws.Packages = append(ws.Packages, m.Package{Name: name, Root: m.Path(dir)})
		}
	}

	sort.Slice(ws.Packages, func(i, j int) bool { return ws.Packages[i].Name < ws.Packages[j].Name })

	return ws
}

// expandMemberPattern resolves a workspace member entry to concrete
// directories relative to root.
func expandMemberPattern(fs a.SourceFSAdapter, root m.Path, member string) []string {
	base, wildcard := strings.CutSuffix(member, "/*")
	if !wildcard {
		base, wildcard = strings.CutSuffix(member, "/**")
	}

	if !wildcard {
		if strings.Contains(member, "*") {
			return nil
		}

		return []string{member}
	}

	entries, err := fs.ListDir(fs.JoinPath(string(root), base))
	if err != nil {
		return nil
	}

	var dirs []string

	for _, entry := range entries {
		if entry.IsDir {
			dirs = append(dirs, base+"/"+entry.Name)
		}
	}

	return dirs
}

func cargoPackageName(fs a.SourceFSAdapter, root m.Path, dir string) string {
	raw, err := fs.ReadFile(fs.JoinPath(string(root), dir, "Cargo.toml"))
	if err != nil {
		return ""
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return ""
	}

	return manifest.Package.Name
}
