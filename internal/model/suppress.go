package model

// SuppressTool names the mechanism behind a suppression directive, so
// violation messages can give tool-specific guidance.
type SuppressTool string

const (
	SuppressToolRustAllow  SuppressTool = "allow"
	SuppressToolRustExpect SuppressTool = "expect"
	SuppressToolNolint     SuppressTool = "nolint"
	SuppressToolNoqa       SuppressTool = "noqa"
	SuppressToolTypeIgnore SuppressTool = "type-ignore"
	SuppressToolPylint     SuppressTool = "pylint"
	SuppressToolPragma     SuppressTool = "pragma"
	SuppressToolESLint     SuppressTool = "eslint"
	SuppressToolBiome      SuppressTool = "biome"
	SuppressToolShellcheck SuppressTool = "shellcheck"
	SuppressToolRubocop    SuppressTool = "rubocop"
	SuppressToolStandard   SuppressTool = "standard"
)

// SuppressDirective is a lint suppression found in source, normalized
// across languages and tools.
type SuppressDirective struct {
	// Line is 1-indexed.
	Line int

	Tool SuppressTool

	// Codes are the suppressed lint codes. Empty means the directive
	// suppresses everything the tool checks.
	Codes []string

	// HasComment reports whether an explanation accompanies the
	// directive, either inline or on an adjacent comment line.
	HasComment bool

	// CommentText is the explanation content when HasComment is true.
	CommentText string

	// Display is the directive as written, used in violation output.
	Display string
}
