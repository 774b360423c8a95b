package model

import "sort"

// ScopeCounts holds per-pattern match counts split by file kind.
type ScopeCounts struct {
	Source map[string]int `json:"source"`
	Test   map[string]int `json:"test"`
}

// NewScopeCounts returns empty counts with both maps allocated.
func NewScopeCounts() *ScopeCounts {
	return &ScopeCounts{
		Source: map[string]int{},
		Test:   map[string]int{},
	}
}

// Add increments the counter for a pattern in the given scope.
func (s *ScopeCounts) Add(pattern string, kind FileKind, n int) {
	if kind == FileKindTest {
		s.Test[pattern] += n
		return
	}

	s.Source[pattern] += n
}

// Merge folds other into s.
func (s *ScopeCounts) Merge(other *ScopeCounts) {
	if other == nil {
		return
	}

	for name, n := range other.Source {
		s.Source[name] += n
	}

	for name, n := range other.Test {
		s.Test[name] += n
	}
}

// Metrics aggregates escape usage across a run. Counts include matches
// that also produced violations.
type Metrics struct {
	Total *ScopeCounts `json:"total"`

	// Packages breaks counts down per workspace package when the
	// project layout reveals one.
	Packages map[string]*ScopeCounts `json:"packages,omitempty"`
}

// NewMetrics returns Metrics with every configured pattern present at
// zero, so reports always show the full pattern list.
func NewMetrics(patterns []EscapePattern) *Metrics {
	m := &Metrics{Total: NewScopeCounts()}
	for _, p := range patterns {
		m.Total.Source[p.Name] = 0
		m.Total.Test[p.Name] = 0
	}

	return m
}

// Record counts one match, optionally attributed to a package.
func (m *Metrics) Record(pattern string, kind FileKind, pkg string) {
	m.Total.Add(pattern, kind, 1)

	if pkg == "" {
		return
	}

	if m.Packages == nil {
		m.Packages = map[string]*ScopeCounts{}
	}

	counts, ok := m.Packages[pkg]
	if !ok {
		counts = NewScopeCounts()
		m.Packages[pkg] = counts
	}

	counts.Add(pattern, kind, 1)
}

// PackageCounts returns the counts bucket for a package, allocating it
// on first use.
func (m *Metrics) PackageCounts(pkg string) *ScopeCounts {
	if m.Packages == nil {
		m.Packages = map[string]*ScopeCounts{}
	}

	counts, ok := m.Packages[pkg]
	if !ok {
		counts = NewScopeCounts()
		m.Packages[pkg] = counts
	}

	return counts
}

// Merge folds other into m.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil {
		return
	}

	m.Total.Merge(other.Total)

	for pkg, counts := range other.Packages {
		if m.Packages == nil {
			m.Packages = map[string]*ScopeCounts{}
		}

		if existing, ok := m.Packages[pkg]; ok {
			existing.Merge(counts)
		} else {
			merged := NewScopeCounts()
			merged.Merge(counts)
			m.Packages[pkg] = merged
		}
	}
}

// SourceCount returns the source-scope count for a pattern.
func (m *Metrics) SourceCount(pattern string) int {
	return m.Total.Source[pattern]
}

// PatternNames returns every counted pattern name, sorted.
func (m *Metrics) PatternNames() []string {
	seen := map[string]bool{}
	for name := range m.Total.Source {
		seen[name] = true
	}

	for name := range m.Total.Test {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
