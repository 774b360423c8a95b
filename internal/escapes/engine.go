// Package escapes implements the escape hatch check: pattern matching
// with action semantics, lint suppression policy, count thresholds,
// and the lint-config change policy.
package escapes

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	a "github.com/hatchet-lint/hatchet/internal/adapter"
	"github.com/hatchet-lint/hatchet/internal/config"
	"github.com/hatchet-lint/hatchet/internal/lang"
	m "github.com/hatchet-lint/hatchet/internal/model"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Checker runs the escape hatch check over a project tree.
type Checker interface {
	Run(ctx context.Context) (*m.RunResult, error)
}

// Options tunes a check run.
type Options struct {
	// Base is the git rev changed files are compared against. Empty
	// disables the lint change policy.
	Base string

	// Threads caps concurrent file checks. Zero or negative means one
	// worker per file.
	Threads int
}

type checker struct {
	fs    a.SourceFSAdapter
	git   a.GitAdapter
	cache a.ResultCache
	cfg   *config.Config
	root  m.Path
	opts  Options
}

// NewChecker constructs a Checker backed by the provided filesystem,
// git, and cache adapters.
func NewChecker(fs a.SourceFSAdapter, git a.GitAdapter, cache a.ResultCache, cfg *config.Config, root m.Path, opts Options) Checker {
	return &checker{
		fs:    fs,
		git:   git,
		cache: cache,
		cfg:   cfg,
		root:  root,
		opts:  opts,
	}
}

// suppressEntry binds a file extension to the language whose directive
// syntax and suppress policy apply to it.
type suppressEntry struct {
	language string
	adapter  lang.Adapter
	cfg      *config.SuppressConfig
}

// runState is the immutable per-run context shared across file
// workers.
type runState struct {
	language string
	adapter  lang.Adapter
	patterns []compiledEscape

	// suppress maps file extensions to their directive checker, so
	// Shell scripts in a Rust project still get shellcheck policy.
	suppress map[string]suppressEntry

	// inline is the inline-test analyzer for extensions whose
	// language mixes test blocks into source files.
	inline map[string]lang.InlineTestAnalyzer

	// fingerprint folds the run configuration into cache keys.
	fingerprint uint64
}

// walkSkipDirs are dependency and build-output directories never worth
// scanning. Hidden directories are skipped by the walker itself.
var walkSkipDirs = []string{"node_modules", "target", "vendor", "__pycache__"}

// Run executes the check: lint policy first, then the parallel
// per-file scan, then run-level threshold evaluation.
func (c *checker) Run(ctx context.Context) (*m.RunResult, error) {
	if c.cfg.Escapes.Check == config.CheckOff {
		return &m.RunResult{Status: m.RunPassed, Metrics: m.NewMetrics(nil)}, nil
	}

	language := c.cfg.Project.Language
	if language == "" {
		language = lang.Detect(c.fs, c.root)
	}

	slog.Debug("Resolved project language", "language", language)

	langCfg := c.cfg.Language(language)
	adapter := lang.New(language, lang.Options{
		Source: langCfg.Source,
		Tests:  langCfg.Tests,
		Ignore: langCfg.Ignore,
	})

	policyViolations, policyLevel, err := c.checkLintPolicy(language, adapter, langCfg)
	if err != nil {
		return nil, err
	}

	merged := mergePatterns(c.cfg.Escapes.Patterns, adapter.DefaultEscapes())
	metrics := m.NewMetrics(merged)

	if len(merged) == 0 {
		return &m.RunResult{Status: m.RunPassed, Metrics: metrics}, nil
	}

	patterns, err := compilePatterns(merged)
	if err != nil {
		return nil, err
	}

	run := &runState{
		language:    language,
		adapter:     adapter,
		patterns:    patterns,
		suppress:    c.buildSuppressTable(language, adapter),
		inline:      buildInlineTable(language, adapter),
		fingerprint: c.runFingerprint(language, merged, langCfg),
	}

	files, err := c.fs.Walk(c.root, walkSkipDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to walk project: %w", err)
	}

	reports := c.checkFiles(ctx, run, files)

	packageFor := c.packageResolver(adapter)

	var violations []m.Violation

	for i, report := range reports {
		if report == nil {
			continue
		}

		metrics.Total.Merge(report.Counts)

		if pkg := packageFor(files[i]); pkg != "" {
			metrics.PackageCounts(pkg).Merge(report.Counts)
		}

		violations = append(violations, report.Violations...)
	}

	violations = append(violations, thresholdViolations(patterns, metrics)...)

	if err := c.cache.Flush(); err != nil {
		slog.Warn("Failed to persist result cache", "error", err)
	}

	return buildResult(violations, policyViolations, policyLevel, metrics), nil
}

// checkFiles fans the per-file work out over a bounded worker pool.
// Results keep walk order; cancellation stops submitting new files but
// in-flight files complete.
func (c *checker) checkFiles(ctx context.Context, run *runState, files []m.Path) []*m.FileReport {
	reports := make([]*m.FileReport, len(files))

	var group errgroup.Group
	if c.opts.Threads > 0 {
		group.SetLimit(c.opts.Threads)
	}

	for i, file := range files {
		if ctx.Err() != nil {
			break
		}

		if !isSourceFile(file) {
			continue
		}

		i, file := i, file
		group.Go(func() error {
			raw, err := c.fs.ReadFile(c.fs.JoinPath(string(c.root), string(file)))
			if err != nil {
				slog.Warn("Skipping unreadable file", "path", file, "error", err)
				return nil
			}

			hash := a.HashContent(raw) ^ run.fingerprint

			if cached, ok := c.cache.Lookup(file, hash); ok {
				reports[i] = &cached
				return nil
			}

			report := checkFile(run, file, string(raw))
			c.cache.Store(file, hash, report)
			reports[i] = &report

			return nil
		})
	}

	// Workers never return errors; read failures only skip the file.
	_ = group.Wait()

	return reports
}

// checkFile scans one file: suppress directives first, then every
// escape pattern with line dedupe, comment skipping, and test-scope
// action overrides. It is a pure function of the run state and file
// content, which is what makes the result cacheable.
func checkFile(run *runState, file m.Path, content string) m.FileReport {
	kind := run.adapter.Classify(file)
	report := m.FileReport{Kind: kind, Counts: m.NewScopeCounts()}

	if kind == m.FileKindOther {
		return report
	}

	lines := strings.Split(content, "\n")
	isTestFile := kind == m.FileKindTest
	ext := fileExtension(file)

	var inline lang.InlineTests
	if analyzer, ok := run.inline[ext]; ok {
		inline = analyzer.InlineTestLines(content)
	}

	if entry, ok := run.suppress[ext]; ok {
		directives := entry.adapter.ParseSuppressions(content, "")
		report.Violations = append(report.Violations,
			checkSuppressDirectives(entry.language, file, directives, entry.cfg, isTestFile, inline)...)
	}

	for _, p := range run.patterns {
		seen := map[int]bool{}

		for _, match := range p.matcher.Matches(content) {
			if seen[match.Line] {
				continue
			}

			seen[match.Line] = true

			skipCommentMatches := p.Action == m.ActionComment || p.Action == m.ActionForbid
			if skipCommentMatches && isMatchInComment(lines[match.Line-1], match.Start) {
				continue
			}

			isTest := isTestFile || (inline != nil && inline.IsTestLine(match.Line-1))

			scope := m.FileKindSource
			if isTest {
				scope = m.FileKindTest
			}

			report.Counts.Add(p.Name, scope, 1)

			action := p.Action
			if isTest {
				if p.InTests == "" || p.InTests == m.ActionAllow || p.InTests == m.ActionCount {
					continue
				}

				action = p.InTests
			}

			switch action {
			case m.ActionComment:
				marker := p.Comment
				if marker == "" {
					marker = defaultCommentMarker
				}

				if !hasJustificationComment(lines, match.Line, marker) {
					report.Violations = append(report.Violations, m.Violation{
						File:    file,
						Line:    match.Line,
						Type:    m.ViolationMissingComment,
						Pattern: p.Name,
						Message: formatCommentAdvice(p.Advice, marker),
					})
				}
			case m.ActionForbid:
				report.Violations = append(report.Violations, m.Violation{
					File:    file,
					Line:    match.Line,
					Type:    m.ViolationForbidden,
					Pattern: p.Name,
					Message: p.Advice,
				})
			default:
				// Count: threshold evaluation happens after all files.
			}
		}
	}

	return report
}

// thresholdViolations evaluates count patterns against the whole-run
// source metrics.
func thresholdViolations(patterns []compiledEscape, metrics *m.Metrics) []m.Violation {
	var violations []m.Violation

	for _, p := range patterns {
		if p.Action != m.ActionCount {
			continue
		}

		count := metrics.SourceCount(p.Name)
		if count > p.Threshold {
			violations = append(violations, m.Violation{
				Type:      m.ViolationThresholdExceeded,
				Pattern:   p.Name,
				Message:   p.Advice,
				Value:     count,
				Threshold: p.Threshold,
			})
		}
	}

	return violations
}

// buildResult folds escape and policy violations into the run status.
// Escape violations always fail; policy violations alone fail only at
// error level.
func buildResult(violations, policyViolations []m.Violation, policyLevel config.CheckLevel, metrics *m.Metrics) *m.RunResult {
	switch {
	case len(violations) > 0:
		return &m.RunResult{
			Status:     m.RunFailed,
			Violations: append(violations, policyViolations...),
			Metrics:    metrics,
		}
	case len(policyViolations) > 0:
		status := m.RunFailed
		if policyLevel == config.CheckWarn {
			status = m.RunPassedWithWarnings
		}

		return &m.RunResult{Status: status, Violations: policyViolations, Metrics: metrics}
	default:
		return &m.RunResult{Status: m.RunPassed, Metrics: metrics}
	}
}

// checkLintPolicy evaluates the standalone lint change policy against
// the changed files when a base rev was given.
func (c *checker) checkLintPolicy(language string, adapter lang.Adapter, langCfg *config.LanguageConfig) ([]m.Violation, config.CheckLevel, error) {
	level := c.cfg.PolicyCheckLevel(language)

	if level == config.CheckOff || langCfg.Policy.LintChanges != config.LintChangesStandalone {
		return nil, level, nil
	}

	if c.opts.Base == "" || c.git == nil {
		return nil, level, nil
	}

	changed, err := c.git.ChangedFiles(c.root, c.opts.Base)
	if err != nil {
		return nil, level, fmt.Errorf("failed to resolve changed files: %w", err)
	}

	lintConfigs := langCfg.Policy.LintConfig
	if len(lintConfigs) == 0 {
		lintConfigs = adapter.DefaultLintConfigs()
	}

	result := classifyChangedFiles(adapter, lintConfigs, changed)
	if !result.standaloneViolated {
		return nil, level, nil
	}

	return []m.Violation{lintPolicyViolation(result)}, level, nil
}

// packageResolver picks how files are attributed to packages:
// configured package patterns win, then a detected multi-package
// workspace layout.
func (c *checker) packageResolver(adapter lang.Adapter) func(m.Path) string {
	if packages := c.cfg.Project.Packages; len(packages) > 0 {
		return func(file m.Path) string {
			return findPackage(packages, file)
		}
	}

	if detector, ok := adapter.(lang.WorkspaceDetector); ok {
		if ws := detector.DetectWorkspace(c.fs, c.root); ws != nil && ws.IsWorkspace {
			return ws.PackageFor
		}
	}

	return func(m.Path) string { return "" }
}

// buildSuppressTable wires directive checking by file extension. Every
// language's syntax stays available so mixed trees get the right
// parser, each under its own language's suppress policy.
func (c *checker) buildSuppressTable(language string, projectAdapter lang.Adapter) map[string]suppressEntry {
	table := map[string]suppressEntry{}

	for _, name := range []string{"rust", "go", "python", "javascript", "ruby", "shell"} {
		adapter := projectAdapter
		if name != language {
			adapter = lang.New(name, lang.Options{})
		}

		entry := suppressEntry{
			language: name,
			adapter:  adapter,
			cfg:      &c.cfg.Language(name).Suppress,
		}

		for _, ext := range adapter.Extensions() {
			table[ext] = entry
		}
	}

	return table
}

// buildInlineTable wires inline-test analysis for languages that embed
// test blocks in source files.
func buildInlineTable(language string, projectAdapter lang.Adapter) map[string]lang.InlineTestAnalyzer {
	table := map[string]lang.InlineTestAnalyzer{}

	rust := lang.New("rust", lang.Options{})
	if language == "rust" {
		rust = projectAdapter
	}

	if analyzer, ok := rust.(lang.InlineTestAnalyzer); ok {
		for _, ext := range rust.Extensions() {
			table[ext] = analyzer
		}
	}

	return table
}

// runFingerprint hashes the run configuration into cache keys so a
// config change invalidates prior results.
func (c *checker) runFingerprint(language string, patterns []m.EscapePattern, langCfg *config.LanguageConfig) uint64 {
	var b strings.Builder

	b.WriteString(language)
	fmt.Fprintf(&b, "%+v", patterns)

	for _, name := range []string{"rust", "go", "python", "javascript", "ruby", "shell", "generic"} {
		fmt.Fprintf(&b, "%+v", c.cfg.Language(name).Suppress)
	}

	fmt.Fprintf(&b, "%+v%+v%+v", langCfg.Source, langCfg.Tests, langCfg.Ignore)

	return xxh3.HashString(b.String())
}

// sourceExtensions is the set of code file extensions worth scanning.
// Config, documentation, and data files are excluded.
var sourceExtensions = map[string]bool{
	"rs": true, "c": true, "cpp": true, "h": true, "hpp": true, "go": true,
	"java": true, "kt": true, "scala": true,
	"py": true, "rb": true, "rake": true, "php": true, "lua": true, "pl": true, "pm": true, "r": true,
	"js": true, "ts": true, "jsx": true, "tsx": true,
	"swift": true, "m": true, "mm": true,
	"cs": true,
	"sh": true, "bash": true, "zsh": true,
	"html": true, "css": true, "vue": true, "svelte": true,
	"sql": true, "ex": true, "exs": true, "erl": true, "clj": true, "hs": true, "ml": true,
}

func isSourceFile(file m.Path) bool {
	return sourceExtensions[fileExtension(file)]
}

func fileExtension(file m.Path) string {
	ext := path.Ext(string(file))
	if ext == "" {
		return ""
	}

	return strings.ToLower(ext[1:])
}
