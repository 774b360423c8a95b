package model

// Path represents a file system path, relative to the project root
// unless stated otherwise.
type Path string

// FileKind classifies a file for checking purposes.
type FileKind string

const (
	// FileKindSource is production code. All escape actions apply.
	FileKindSource FileKind = "source"

	// FileKindTest is test code. Escapes are counted but exempt from
	// comment and forbid actions unless a pattern opts back in.
	FileKindTest FileKind = "test"

	// FileKindOther is anything the language adapter does not claim.
	FileKindOther FileKind = "other"
)
