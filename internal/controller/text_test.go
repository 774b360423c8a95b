package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

func newTextUI(t *testing.T) (*TextUI, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return NewTextUI(cmd), &out
}

func TestTextUIDisplayResultPassed(t *testing.T) {
	ui, out := newTextUI(t)

	result := &m.RunResult{Status: m.RunPassed, Metrics: &m.Metrics{Total: m.NewScopeCounts()}}

	require.NoError(t, ui.DisplayResult(context.Background(), result))
	require.Contains(t, out.String(), "Check passed.")
	require.NotContains(t, out.String(), "Escape hatch usage")
}

func TestTextUIDisplayResultViolations(t *testing.T) {
	ui, out := newTextUI(t)

	metrics := &m.Metrics{Total: m.NewScopeCounts()}
	metrics.Record("unsafe_pointer", m.FileKindSource, "")
	metrics.Record("unsafe_pointer", m.FileKindTest, "")

	result := &m.RunResult{
		Status: m.RunFailed,
		Violations: []m.Violation{
			{
				File:    "internal/ptr/ptr.go",
				Line:    14,
				Type:    m.ViolationMissingComment,
				Pattern: "unsafe_pointer",
				Message: "Add a // SAFETY: comment explaining pointer validity.",
			},
		},
		Metrics: metrics,
	}

	require.NoError(t, ui.DisplayResult(context.Background(), result))

	text := out.String()
	require.Contains(t, text, "internal/ptr/ptr.go:14")
	require.Contains(t, text, "missing justification")
	require.Contains(t, text, "Add a // SAFETY: comment explaining pointer validity.")
	require.Contains(t, text, "Escape hatch usage:")
	require.Contains(t, text, "unsafe_pointer")
	require.Contains(t, text, "Check failed: 1 violation.")
}

func TestTextUIDisplayResultThreshold(t *testing.T) {
	ui, out := newTextUI(t)

	result := &m.RunResult{
		Status: m.RunFailed,
		Violations: []m.Violation{
			{
				Type:      m.ViolationThresholdExceeded,
				Pattern:   "todo",
				Message:   "Reduce escape hatch usage.",
				Value:     7,
				Threshold: 5,
			},
		},
		Metrics: &m.Metrics{Total: m.NewScopeCounts()},
	}

	require.NoError(t, ui.DisplayResult(context.Background(), result))
	require.Contains(t, out.String(), "7 matches, threshold is 5")
	require.Contains(t, out.String(), "threshold exceeded")
}

func TestTextUIDisplayResultWarnings(t *testing.T) {
	ui, out := newTextUI(t)

	result := &m.RunResult{
		Status: m.RunPassedWithWarnings,
		Violations: []m.Violation{
			{Type: m.ViolationLintPolicy, Pattern: "lint_changes = standalone", Message: "Changed lint config: .golangci.yml"},
		},
		Metrics: &m.Metrics{Total: m.NewScopeCounts()},
	}

	require.NoError(t, ui.DisplayResult(context.Background(), result))
	require.Contains(t, out.String(), "lint policy")
	require.Contains(t, out.String(), "Check passed with warnings.")
}

func TestTextUIDisplayResultPackageBreakdown(t *testing.T) {
	ui, out := newTextUI(t)

	metrics := &m.Metrics{Total: m.NewScopeCounts()}
	metrics.Record("unsafe", m.FileKindSource, "core")
	metrics.Record("unsafe", m.FileKindSource, "api")

	result := &m.RunResult{Status: m.RunPassed, Metrics: metrics}

	require.NoError(t, ui.DisplayResult(context.Background(), result))
	require.Contains(t, out.String(), "Package api:")
	require.Contains(t, out.String(), "Package core:")
}

func TestTextUIDisplayPatterns(t *testing.T) {
	ui, out := newTextUI(t)

	patterns := []m.EscapePattern{
		{Name: "unsafe", Pattern: `unsafe\s*\{`, Action: m.ActionComment, Comment: "// SAFETY:"},
		{Name: "todo", Pattern: "TODO", Action: m.ActionCount, Threshold: 25},
	}

	require.NoError(t, ui.DisplayPatterns(context.Background(), "rust", patterns))

	text := out.String()
	require.Contains(t, text, "Escape patterns for rust:")
	require.Contains(t, text, "unsafe")
	require.Contains(t, text, "count (max 25)")
}

func TestTextUICanceledContext(t *testing.T) {
	ui, out := newTextUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, ui.DisplayResult(ctx, &m.RunResult{Status: m.RunPassed}))
	require.Empty(t, out.String())
}
