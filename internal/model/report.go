package model

// FileReport is the outcome of checking a single file. It is what the
// incremental cache stores, so threshold evaluation (which needs the
// whole run) and package attribution (derived from the path alone) are
// deliberately not part of it.
type FileReport struct {
	Kind FileKind

	// Counts are the per-pattern match counts for this file, split by
	// scope because inline test blocks can put both scopes in one
	// file.
	Counts *ScopeCounts

	Violations []Violation
}

// RunStatus is the overall outcome of a check run.
type RunStatus string

const (
	RunPassed RunStatus = "passed"

	// RunPassedWithWarnings means only warn-level policy violations
	// were found.
	RunPassedWithWarnings RunStatus = "passed_with_warnings"

	RunFailed RunStatus = "failed"
)

// RunResult is the complete product of one check run.
type RunResult struct {
	Status     RunStatus   `json:"status"`
	Violations []Violation `json:"violations,omitempty"`
	Metrics    *Metrics    `json:"metrics"`
}

// Failed reports whether the run should exit non-zero.
func (r *RunResult) Failed() bool {
	return r.Status == RunFailed
}
