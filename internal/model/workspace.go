package model

import "strings"

// Package is one member of a workspace or module.
type Package struct {
	Name string
	// Root is the package directory relative to the project root.
	// Empty means the project root itself.
	Root Path
}

// Workspace describes the package layout of a project, used to break
// metrics down per package.
type Workspace struct {
	// IsWorkspace is true for multi-package layouts (Cargo workspaces,
	// pnpm/yarn workspaces). Single-package projects report their one
	// package with IsWorkspace false.
	IsWorkspace bool
	Packages    []Package
}

// PackageFor returns the name of the package owning path, or "" when
// no package claims it. The longest matching package root wins.
func (w *Workspace) PackageFor(path Path) string {
	if w == nil {
		return ""
	}

	best := ""
	bestLen := -1

	for _, pkg := range w.Packages {
		root := strings.TrimSuffix(string(pkg.Root), "/")
		if root != "" && root != "." {
			if string(path) != root && !strings.HasPrefix(string(path), root+"/") {
				continue
			}
		}

		if len(root) > bestLen {
			best = pkg.Name
			bestLen = len(root)
		}
	}

	return best
}
