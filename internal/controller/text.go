package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

var (
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	locationStyle = lipgloss.NewStyle().Bold(true)
	patternStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// TextUI renders results as human-readable text using cobra Command's
// output stream.
type TextUI struct {
	cmd *cobra.Command
}

// NewTextUI creates a new TextUI.
func NewTextUI(cmd *cobra.Command) *TextUI {
	return &TextUI{cmd: cmd}
}

// DisplayResult prints the violations, the metrics tables and the
// final status line.
func (t *TextUI) DisplayResult(ctx context.Context, result *m.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, v := range result.Violations {
		t.printViolation(v)
	}

	if result.Metrics != nil {
		t.printMetrics(result.Metrics)
	}

	t.printf("%s\n", statusLine(result))

	return nil
}

// DisplayPatterns prints the effective pattern set for a language.
func (t *TextUI) DisplayPatterns(ctx context.Context, language string, patterns []m.EscapePattern) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.printf("Escape patterns for %s:\n\n", language)

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Name", "Action", "Pattern"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, p := range patterns {
		action := string(p.Action)
		if p.Action == m.ActionCount && p.Threshold > 0 {
			action = fmt.Sprintf("count (max %d)", p.Threshold)
		}

		table.Append([]string{p.Name, action, p.Pattern})
	}

	table.Render()
	t.printf("%s", buffer.String())

	return nil
}

func (t *TextUI) printViolation(v m.Violation) {
	header := violationLabel(v.Type)

	switch {
	case v.File != "" && v.Line > 0:
		header = fmt.Sprintf("%s  %s  %s",
			locationStyle.Render(fmt.Sprintf("%s:%d", v.File, v.Line)),
			failStyle.Render(header),
			patternStyle.Render(v.Pattern))
	case v.File != "":
		header = fmt.Sprintf("%s  %s  %s",
			locationStyle.Render(string(v.File)),
			failStyle.Render(header),
			patternStyle.Render(v.Pattern))
	default:
		header = fmt.Sprintf("%s  %s",
			failStyle.Render(header),
			patternStyle.Render(v.Pattern))
	}

	t.printf("%s\n", header)

	if v.Type == m.ViolationThresholdExceeded {
		t.printf("    %d matches, threshold is %d\n", v.Value, v.Threshold)
	}

	for _, line := range strings.Split(v.Message, "\n") {
		t.printf("    %s\n", line)
	}

	t.printf("\n")
}

func (t *TextUI) printMetrics(metrics *m.Metrics) {
	names := metrics.PatternNames()
	if len(names) == 0 {
		return
	}

	t.printf("Escape hatch usage:\n\n%s", renderCountsTable(names, metrics.Total))

	packages := make([]string, 0, len(metrics.Packages))
	for pkg := range metrics.Packages {
		packages = append(packages, pkg)
	}

	sort.Strings(packages)

	for _, pkg := range packages {
		t.printf("\nPackage %s:\n\n%s", pkg, renderCountsTable(names, metrics.Packages[pkg]))
	}
}

func renderCountsTable(names []string, counts *m.ScopeCounts) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Pattern", "Source", "Test"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	totalSource := 0
	totalTest := 0

	for _, name := range names {
		source := counts.Source[name]
		test := counts.Test[name]
		totalSource += source
		totalTest += test

		table.Append([]string{name, fmt.Sprintf("%d", source), fmt.Sprintf("%d", test)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", totalSource), fmt.Sprintf("%d", totalTest)})
	table.Render()

	return buffer.String()
}

func statusLine(result *m.RunResult) string {
	switch result.Status {
	case m.RunFailed:
		word := "violations"
		if len(result.Violations) == 1 {
			word = "violation"
		}

		return failStyle.Render(fmt.Sprintf("Check failed: %d %s.", len(result.Violations), word))
	case m.RunPassedWithWarnings:
		return warnStyle.Render("Check passed with warnings.")
	default:
		return passStyle.Render("Check passed.")
	}
}

func violationLabel(t m.ViolationType) string {
	switch t {
	case m.ViolationForbidden:
		return "forbidden escape"
	case m.ViolationMissingComment:
		return "missing justification"
	case m.ViolationThresholdExceeded:
		return "threshold exceeded"
	case m.ViolationSuppressForbidden:
		return "forbidden suppression"
	case m.ViolationSuppressMissingComment:
		return "unjustified suppression"
	case m.ViolationLintPolicy:
		return "lint policy"
	default:
		return string(t)
	}
}

func (t *TextUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.cmd.OutOrStdout(), format, args...)
}
