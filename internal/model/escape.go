package model

// Action defines what happens when an escape pattern matches source code.
type Action string

const (
	// ActionCount only tallies matches into metrics. A violation is
	// raised only when a pattern threshold is exceeded.
	ActionCount Action = "count"

	// ActionComment requires a justification comment on or above the
	// matching line.
	ActionComment Action = "comment"

	// ActionForbid rejects every match outright.
	ActionForbid Action = "forbid"

	// ActionAllow is only valid as an InTests override and restores
	// the default test exemption explicitly.
	ActionAllow Action = "allow"
)

// EscapePattern describes one escape hatch to look for.
type EscapePattern struct {
	// Name identifies the pattern in metrics and violation output.
	Name string `mapstructure:"name"`

	// Pattern is a regular expression matched line by line against
	// file content. Plain strings work too and are matched literally.
	Pattern string `mapstructure:"pattern"`

	Action Action `mapstructure:"action"`

	// Comment is the justification marker required by ActionComment,
	// e.g. "// SAFETY:". The comment content must begin with it.
	Comment string `mapstructure:"comment"`

	// Advice is appended to violation messages to point at the
	// sanctioned alternative.
	Advice string `mapstructure:"advice"`

	// Threshold caps the total source-scope match count for
	// ActionCount; the check fails when the count exceeds it.
	Threshold int `mapstructure:"threshold"`

	// InTests overrides the test-code exemption. Empty keeps the
	// default behavior (count only).
	InTests Action `mapstructure:"in_tests"`
}

// Match is a single pattern hit inside a file.
type Match struct {
	// Line is 1-indexed.
	Line int

	// Start and End are byte offsets of the match within the line.
	Start int
	End   int
}
