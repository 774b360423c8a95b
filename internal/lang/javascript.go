package lang

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// jsEscapes are the built-in escape patterns for JavaScript/TypeScript.
var jsEscapes = []m.EscapePattern{
	{
		Name:    "as_unknown",
		Pattern: `as\s+unknown`,
		Action:  m.ActionComment,
		Comment: "// CAST:",
		Advice:  "Add a // CAST: comment explaining why the type assertion is necessary.",
	},
	{
		Name:    "ts_ignore",
		Pattern: `@ts-ignore`,
		Action:  m.ActionForbid,
		Advice:  "@ts-ignore is forbidden. Use @ts-expect-error instead, which fails if the error is resolved.",
	},
}

// JavaScript is the language adapter for JavaScript and TypeScript
// projects.
type JavaScript struct {
	source globSet
	tests  globSet
	ignore globSet
}

// NewJavaScript constructs the JavaScript adapter.
func NewJavaScript(opts Options) *JavaScript {
	return &JavaScript{
		source: buildGlobSet(pick(opts.Source, []string{
			"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx", "**/*.mjs", "**/*.mts",
		})),
		tests: buildGlobSet(pick(opts.Tests, []string{
			"**/*.test.js", "**/*.test.ts", "**/*.test.jsx", "**/*.test.tsx",
			"**/*.spec.js", "**/*.spec.ts", "**/*.spec.jsx", "**/*.spec.tsx",
			"**/__tests__/**",
			"test/**",
			"tests/**",
		})),
		ignore: buildGlobSet(pick(opts.Ignore, []string{
			"node_modules/**",
			"dist/**",
			"build/**",
			".next/**",
			"coverage/**",
		})),
	}
}

func (j *JavaScript) Name() string { return "javascript" }

func (j *JavaScript) Extensions() []string {
	return []string{"js", "jsx", "ts", "tsx", "mjs", "mts"}
}

func (j *JavaScript) Classify(path m.Path) m.FileKind {
	if j.ignore.Match(path) {
		return m.FileKindOther
	}

	if j.tests.Match(path) {
		return m.FileKindTest
	}

	if j.source.Match(path) {
		return m.FileKindSource
	}

	return m.FileKindOther
}

func (j *JavaScript) DefaultEscapes() []m.EscapePattern { return jsEscapes }

func (j *JavaScript) DefaultLintConfigs() []string {
	return []string{
		".eslintrc", ".eslintrc.js", ".eslintrc.json", ".eslintrc.yml",
		"eslint.config.js", "eslint.config.mjs",
		"tsconfig.json",
		".prettierrc", ".prettierrc.json", "prettier.config.js",
		"biome.json", "biome.jsonc",
	}
}

// ParseSuppressions finds ESLint (eslint-disable-next-line and
// /* eslint-disable */ blocks) and Biome (biome-ignore) directives,
// sorted by line.
func (j *JavaScript) ParseSuppressions(content string, marker string) []m.SuppressDirective {
	lines := strings.Split(content, "\n")

	out := parseESLintDirectives(lines, marker)
	out = append(out, parseBiomeDirectives(lines, marker)...)

	sort.SliceStable(out, func(i, k int) bool { return out[i].Line < out[k].Line })

	return out
}

func parseESLintDirectives(lines []string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		rest, ok := strings.CutPrefix(trimmed, "//")
		if !ok {
			continue
		}

		rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), "eslint-disable-next-line")
		if !ok {
			continue
		}

		codes, inlineReason := parseESLintRules(rest)

		hasComment := inlineReason != ""
		text := inlineReason
		if !hasComment {
			hasComment, text = checkJustificationComment(lines, i, marker, jsCommentStyle)
		}

		out = append(out, m.SuppressDirective{
			Line:        i + 1,
			Tool:        m.SuppressToolESLint,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     eslintDisplay(codes),
		})
	}

	// Block disables live in /* */ comments anywhere on the line.
	for i, line := range lines {
		rules, ok := parseESLintBlockDisable(line)
		if !ok {
			continue
		}

		codes, _ := parseESLintRules(rules)
		hasComment, text := checkJustificationComment(lines, i, marker, jsCommentStyle)

		out = append(out, m.SuppressDirective{
			Line:        i + 1,
			Tool:        m.SuppressToolESLint,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     eslintDisplay(codes),
		})
	}

	return out
}

func eslintDisplay(codes []string) string {
	if len(codes) == 0 {
		return "eslint-disable"
	}

	return "eslint-disable-next-line " + strings.Join(codes, ", ")
}

// parseESLintRules splits a directive tail into rule codes and an
// optional inline " -- reason" justification.
func parseESLintRules(text string) ([]string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ""
	}

	reason := ""
	rulesPart := text

	if idx := strings.Index(text, " -- "); idx >= 0 {
		rulesPart = strings.TrimSpace(text[:idx])
		reason = strings.TrimSpace(text[idx+4:])
	} else if after, ok := strings.CutPrefix(text, "-- "); ok {
		return nil, strings.TrimSpace(after)
	}

	var codes []string
	for _, code := range splitCodes(rulesPart, ",") {
		if !strings.HasPrefix(code, "--") {
			codes = append(codes, code)
		}
	}

	return codes, reason
}

func parseESLintBlockDisable(line string) (string, bool) {
	pos := strings.Index(line, "/*")
	if pos < 0 {
		return "", false
	}

	rest, ok := strings.CutPrefix(strings.TrimLeft(line[pos+2:], " \t"), "eslint-disable")
	if !ok || strings.HasPrefix(rest, "-next-line") {
		return "", false
	}

	end := strings.Index(rest, "*/")
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}

func parseBiomeDirectives(lines []string, marker string) []m.SuppressDirective {
	var out []m.SuppressDirective

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		rest, ok := strings.CutPrefix(trimmed, "//")
		if !ok {
			continue
		}

		rest, ok = strings.CutPrefix(strings.TrimLeft(rest, " \t"), "biome-ignore")
		if !ok || !startsWithSpace(rest) {
			continue
		}
		rest = strings.TrimLeft(rest, " \t")

		codesPart := rest
		explanation := ""
		if colon := strings.Index(rest, ":"); colon >= 0 {
			codesPart = rest[:colon]
			explanation = strings.TrimSpace(rest[colon+1:])
		}

		var codes []string
		for _, code := range strings.Fields(codesPart) {
			if strings.HasPrefix(code, "lint/") {
				codes = append(codes, code)
			}
		}
		if len(codes) == 0 {
			continue
		}

		// An explanation after the colon counts as justification.
		hasComment := explanation != ""
		text := explanation
		if !hasComment {
			hasComment, text = checkJustificationComment(lines, i, marker, jsCommentStyle)
		}

		out = append(out, m.SuppressDirective{
			Line:        i + 1,
			Tool:        m.SuppressToolBiome,
			Codes:       codes,
			HasComment:  hasComment,
			CommentText: text,
			Display:     "biome-ignore " + strings.Join(codes, " "),
		})
	}

	return out
}

type packageJSON struct {
	Name       string          `json:"name"`
	Workspaces json.RawMessage `json:"workspaces"`
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// DetectWorkspace reads pnpm-workspace.yaml first, then the
// package.json workspaces field (array or {packages: []} form).
// Workspace patterns expand one directory level and every member must
// carry its own package.json.
func (j *JavaScript) DetectWorkspace(fs a.SourceFSAdapter, root m.Path) *m.Workspace {
	patterns := pnpmWorkspacePatterns(fs, root)

	var rootPkg packageJSON
	if raw, err := fs.ReadFile(fs.JoinPath(string(root), "package.json")); err == nil {
		_ = json.Unmarshal(raw, &rootPkg)
	}

	if len(patterns) == 0 {
		patterns = packageJSONWorkspaces(rootPkg.Workspaces)
	}

	if len(patterns) == 0 {
		if rootPkg.Name == "" {
			return nil
		}

		return &m.Workspace{Packages: []m.Package{{Name: rootPkg.Name, Root: ""}}}
	}

	var packages []m.Package
	for _, pattern := range patterns {
		for _, dir := range expandJSWorkspacePattern(fs, root, pattern) {
			name := dir
			if idx := strings.LastIndex(dir, "/"); idx >= 0 {
				name = dir[idx+1:]
			}
			packages = append(packages, m.Package{Name: name, Root: m.Path(dir)})
		}
	}

	sort.Slice(packages, func(i, k int) bool { return packages[i].Root < packages[k].Root })

	return &m.Workspace{IsWorkspace: true, Packages: packages}
}

func pnpmWorkspacePatterns(fs a.SourceFSAdapter, root m.Path) []string {
	raw, err := fs.ReadFile(fs.JoinPath(string(root), "pnpm-workspace.yaml"))
	if err != nil {
		return nil
	}

	var ws pnpmWorkspace
	if err := yaml.Unmarshal(raw, &ws); err != nil {
		return nil
	}

	return ws.Packages
}

func packageJSONWorkspaces(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Packages
	}

	return nil
}

func expandJSWorkspacePattern(fs a.SourceFSAdapter, root m.Path, pattern string) []string {
	hasPackageJSON := func(dir string) bool {
		return fs.FileExists(fs.JoinPath(string(root), dir, "package.json"))
	}

	base, ok := strings.CutSuffix(pattern, "/*")
	if !ok {
		base, ok = strings.CutSuffix(pattern, "/**")
	}

	if ok {
		entries, err := fs.ListDir(fs.JoinPath(string(root), base))
		if err != nil {
			return nil
		}

		var dirs []string
		for _, e := range entries {
			if e.IsDir && hasPackageJSON(base+"/"+e.Name) {
				dirs = append(dirs, base+"/"+e.Name)
			}
		}

		return dirs
	}

	if strings.Contains(pattern, "*") {
		return nil
	}

	if hasPackageJSON(pattern) {
		return []string{pattern}
	}

	return nil
}
