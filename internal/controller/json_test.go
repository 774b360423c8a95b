package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

func TestJSONUIDisplayResult(t *testing.T) {
	var out bytes.Buffer

	ui := NewJSONUI(&out)

	metrics := &m.Metrics{Total: m.NewScopeCounts()}
	metrics.Record("eval", m.FileKindSource, "")

	result := &m.RunResult{
		Status: m.RunFailed,
		Violations: []m.Violation{
			{File: "app.py", Line: 3, Type: m.ViolationForbidden, Pattern: "eval", Message: "Remove this escape hatch from production code."},
		},
		Metrics: metrics,
	}

	require.NoError(t, ui.DisplayResult(context.Background(), result))

	var decoded m.RunResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, m.RunFailed, decoded.Status)
	require.Len(t, decoded.Violations, 1)
	require.Equal(t, m.Path("app.py"), decoded.Violations[0].File)
	require.Equal(t, 1, decoded.Metrics.Total.Source["eval"])
}

func TestJSONUIDisplayPatterns(t *testing.T) {
	var out bytes.Buffer

	ui := NewJSONUI(&out)

	patterns := []m.EscapePattern{
		{Name: "breakpoint", Pattern: `\bbreakpoint\(`, Action: m.ActionForbid, InTests: m.ActionForbid},
	}

	require.NoError(t, ui.DisplayPatterns(context.Background(), "python", patterns))

	var decoded struct {
		Language string `json:"language"`
		Patterns []struct {
			Name    string `json:"name"`
			Action  string `json:"action"`
			InTests string `json:"in_tests"`
		} `json:"patterns"`
	}

	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, "python", decoded.Language)
	require.Len(t, decoded.Patterns, 1)
	require.Equal(t, "forbid", decoded.Patterns[0].Action)
	require.Equal(t, "forbid", decoded.Patterns[0].InTests)
}

func TestJSONUICanceledContext(t *testing.T) {
	var out bytes.Buffer

	ui := NewJSONUI(&out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, ui.DisplayResult(ctx, &m.RunResult{Status: m.RunPassed}))
	require.Empty(t, out.String())
}
