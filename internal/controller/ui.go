// Package controller provides output adapters for rendering check results.
package controller

import (
	"context"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// UI defines the interface for presenting run results and pattern
// listings. Implementations cover plain text and machine-readable
// JSON.
type UI interface {
	DisplayResult(ctx context.Context, result *m.RunResult) error
	DisplayPatterns(ctx context.Context, language string, patterns []m.EscapePattern) error
}
