package escapes

import (
	"fmt"
	"path"
	"strings"

	"github.com/hatchet-lint/hatchet/internal/lang"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// policyCheckResult classifies a changeset for the standalone lint
// policy.
type policyCheckResult struct {
	// changedLintConfig lists changed lint tool config files.
	changedLintConfig []string

	// changedSource lists changed source and test files.
	changedSource []string

	// standaloneViolated is true when both lists are non-empty under
	// the standalone policy.
	standaloneViolated bool
}

// classifyChangedFiles sorts a changeset into lint-config and source
// buckets. A file counts as lint config when its basename equals, or
// its path ends with, one of the configured filenames; otherwise the
// adapter's classification decides whether it is source or test. Files
// the adapter does not claim are neutral.
func classifyChangedFiles(adapter lang.Adapter, lintConfigs []string, changed []m.Path) policyCheckResult {
	var result policyCheckResult

	for _, file := range changed {
		name := path.Base(string(file))

		isLintConfig := false
		for _, cfg := range lintConfigs {
			if name == cfg || strings.HasSuffix(string(file), cfg) {
				isLintConfig = true
				break
			}
		}

		if isLintConfig {
			result.changedLintConfig = append(result.changedLintConfig, string(file))
			continue
		}

		kind := adapter.Classify(file)
		if kind == m.FileKindSource || kind == m.FileKindTest {
			result.changedSource = append(result.changedSource, string(file))
		}
	}

	result.standaloneViolated = len(result.changedLintConfig) > 0 && len(result.changedSource) > 0

	return result
}

// lintPolicyViolation renders a violated changeset into the single
// run-level policy violation.
func lintPolicyViolation(result policyCheckResult) m.Violation {
	return m.Violation{
		Type:    m.ViolationLintPolicy,
		Pattern: "lint_changes = standalone",
		Message: fmt.Sprintf(
			"Changed lint config: %s\nAlso changed source: %s\nSubmit lint config changes in a separate PR.",
			strings.Join(result.changedLintConfig, ", "),
			truncateList(result.changedSource, 3),
		),
	}
}

// truncateList renders up to max items, with an "and N more" suffix
// for the rest.
func truncateList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}

	return fmt.Sprintf("%s and %d more", strings.Join(items[:max], ", "), len(items)-max)
}
