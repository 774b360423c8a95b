package model

// ViolationType distinguishes the ways a check can fail.
type ViolationType string

const (
	// ViolationMissingComment means an escape requiring justification
	// has none.
	ViolationMissingComment ViolationType = "missing_comment"

	// ViolationForbidden means a forbidden escape was used.
	ViolationForbidden ViolationType = "forbidden"

	// ViolationThresholdExceeded means a counted escape went over its
	// configured limit across the whole run.
	ViolationThresholdExceeded ViolationType = "threshold_exceeded"

	// ViolationSuppressForbidden means a lint suppression is not
	// allowed here.
	ViolationSuppressForbidden ViolationType = "suppress_forbidden"

	// ViolationSuppressMissingComment means a lint suppression lacks
	// the required explanation.
	ViolationSuppressMissingComment ViolationType = "suppress_missing_comment"

	// ViolationLintPolicy means lint configuration and source changed
	// in the same changeset.
	ViolationLintPolicy ViolationType = "lint_policy"
)

// Violation is one finding reported to the user.
type Violation struct {
	File Path `json:"file"`

	// Line is 1-indexed. Zero marks a file- or run-level finding.
	Line int `json:"line,omitempty"`

	Type ViolationType `json:"type"`

	// Pattern is the escape pattern name or the suppression directive
	// that triggered the finding.
	Pattern string `json:"pattern"`

	// Message is the human-readable explanation, including advice.
	Message string `json:"message"`

	// Value and Threshold are set for threshold findings.
	Value     int `json:"value,omitempty"`
	Threshold int `json:"threshold,omitempty"`
}
