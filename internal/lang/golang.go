package lang

import (
	"sort"
	"strings"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// goEscapes are the built-in escape patterns for Go.
var goEscapes = []m.EscapePattern{
	{
		Name:    "unsafe_pointer",
		Pattern: `unsafe\.Pointer`,
		Action:  m.ActionComment,
		Comment: "// SAFETY:",
		Advice:  "Add a // SAFETY: comment explaining pointer validity.",
	},
	{
		Name:    "go_linkname",
		Pattern: `//go:linkname`,
		Action:  m.ActionComment,
		Comment: "// LINKNAME:",
		Advice:  "Add a // LINKNAME: comment explaining the external symbol dependency.",
	},
	{
		Name:    "go_noescape",
		Pattern: `//go:noescape`,
		Action:  m.ActionComment,
		Comment: "// NOESCAPE:",
		Advice:  "Add a // NOESCAPE: comment explaining why escape analysis should be bypassed.",
	},
}

// Go is the language adapter for Go modules.
type Go struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewGo constructs the Go adapter.
func NewGo(opts Options) *Go {
	return &Go{
		source: buildGlobSet(pick(opts.Source, []string{"**/*.go"})),
		tests:  buildGlobSet(pick(opts.Tests, []string{"**/*_test.go"})),
		ignore: buildGlobSet(pick(opts.Ignore, []string{"vendor/**"})),
	}
}

func (g *Go) Name() string { return "go" }

func (g *Go) Extensions() []string { return []string{"go"} }

func (g *Go) Classify(path m.Path) m.FileKind {
	if g.ignore.Match(path) {
		return m.FileKindOther
	}

	if g.tests.Match(path) {
		return m.FileKindTest
	}

	if g.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

func (g *Go) DefaultEscapes() []m.EscapePattern { return goEscapes }

func (g *Go) DefaultLintConfigs() []string {
	return []string{".golangci.yml", ".golangci.yaml", ".golangci.toml"}
}

// ParseSuppressions finds //nolint directives. An inline reason after
// the directive (//nolint:errcheck // closing best effort) counts as
// the justification.
func (g *Go) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		pos := strings.Index(trimmed, "//nolint")
		if pos < 0 {
			continue
		}

		rest := trimmed[pos+len("//nolint"):]

		codesPart := rest
		inlineReason := ""

		if commentPos := strings.Index(rest, " //"); commentPos >= 0 {
			codesPart = rest[:commentPos]
			inlineReason = strings.TrimSpace(rest[commentPos+3:])
		}

		var codes []string
		if after, ok := strings.CutPrefix(codesPart, ":"); ok {
			for _, code := range splitCodes(after, ",") {
				if !strings.HasPrefix(code, "//") {
					codes = append(codes, code)
				}
			}
		}

		hasComment := inlineReason != ""
		text := inlineReason

		if !hasComment {
			hasComment, text = checkJustificationComment(lines, i, marker, goCommentStyle)
		}

		display := "//nolint"
		if len(codes) > 0 {
			display += ":" + strings.Join(codes, ",")
		}

		out = append(out, m.SuppressDirective{
			Line:        i + 1,
			Tool:        m.SuppressToolNolint,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     display,
		})
	}

	return out
}

// DetectWorkspace reads the module path from go.mod and enumerates
// every directory that holds .go files as a package. The root package
// takes the module path's last element as its name and nested packages
// take their relative directory path.
func (g *Go) DetectWorkspace(fs a.SourceFSAdapter, root m.Path) *m.Workspace {
	raw, err := fs.ReadFile(fs.JoinPath(string(root), "go.mod"))
	if err != nil {
		return nil
	}

	module := parseGoModule(string(raw))
	if module == "" {
		return nil
	}

	name := module
	if idx := strings.LastIndex(module, "/"); idx >= 0 {
		name = module[idx+1:]
	}

	files, err := fs.Walk(root, []string{"vendor"})
	if err != nil {
		return &m.Workspace{Packages: []m.Package{{Name: name, Root: ""}}}
	}

	dirs := map[string]bool{}
	for _, f := range files {
		if !strings.HasSuffix(string(f), ".go") {
			continue
		}

		dir := ""
		if idx := strings.LastIndex(string(f), "/"); idx >= 0 {
			dir = string(f)[:idx]
		}
		dirs[dir] = true
	}

	packages := []m.Package{{Name: name, Root: ""}}
	for dir := range dirs {
		if dir == "" {
			continue
		}
		packages = append(packages, m.Package{Name: dir, Root: m.Path(dir)})
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].Root < packages[j].Root })

	return &m.Workspace{IsWorkspace: len(packages) > 1, Packages: packages}
}

// parseGoModule extracts the module path from go.mod content.
func parseGoModule(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "module "); ok {
			return strings.TrimSpace(after)
		}
	}

	return ""
}
