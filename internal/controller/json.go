package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// JSONUI renders results as indented JSON for machine consumption.
type JSONUI struct {
	out io.Writer
}

// NewJSONUI creates a new JSONUI writing to out.
func NewJSONUI(out io.Writer) *JSONUI {
	return &JSONUI{out: out}
}

// DisplayResult encodes the full run result.
func (j *JSONUI) DisplayResult(ctx context.Context, result *m.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return j.encode(result)
}

// patternListing is the JSON shape of a pattern listing.
type patternListing struct {
	Language string           `json:"language"`
	Patterns []patternSummary `json:"patterns"`
}

type patternSummary struct {
	Name      string `json:"name"`
	Pattern   string `json:"pattern"`
	Action    string `json:"action"`
	Comment   string `json:"comment,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
	InTests   string `json:"in_tests,omitempty"`
}

// DisplayPatterns encodes the effective pattern set for a language.
func (j *JSONUI) DisplayPatterns(ctx context.Context, language string, patterns []m.EscapePattern) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	listing := patternListing{Language: language, Patterns: make([]patternSummary, 0, len(patterns))}

	for _, p := range patterns {
		listing.Patterns = append(listing.Patterns, patternSummary{
			Name:      p.Name,
			Pattern:   p.Pattern,
			Action:    string(p.Action),
			Comment:   p.Comment,
			Threshold: p.Threshold,
			InTests:   string(p.InTests),
		})
	}

	return j.encode(listing)
}

func (j *JSONUI) encode(v interface{}) error {
	encoder := json.NewEncoder(j.out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	return nil
}
