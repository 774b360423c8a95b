// Package adapter contains filesystem, git, and cache adapters for the
// hatchet CLI.
package adapter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// DirEntry is the subset of directory metadata the domain needs when
// expanding workspace member globs.
type DirEntry struct {
	Name  string
	IsDir bool
}

// SourceFSAdapter abstracts filesystem operations the checking logic
// relies on when scanning user projects. It hides direct os access so
// the engine and language adapters can be tested without touching the
// disk.
type SourceFSAdapter interface {
	// Walk returns every regular file under root as a path relative
	// to root. Directories named in skipDirs are not descended into,
	// and hidden directories are always skipped.
	Walk(root m.Path, skipDirs []string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileExists reports whether path names an existing regular file.
	FileExists(path m.Path) bool

	// ListDir returns the immediate entries of a directory.
	ListDir(path m.Path) ([]DirEntry, error)

	// FindProjectRoot walks up from startPath until a directory
	// contains one of the marker files, and returns that directory.
	FindProjectRoot(startPath m.Path, markers []string) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter implementation.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the engine.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk collects regular files under root, relative to root.
func (a *LocalSourceFSAdapter) Walk(root m.Path, skipDirs []string) ([]m.Path, error) {
	skip := make(map[string]bool, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = true
	}

	var files []m.Path

	rootStr := string(root)

	err := filepath.WalkDir(rootStr, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()

		if entry.IsDir() {
			if path == rootStr {
				return nil
			}

			if skip[name] || (len(name) > 1 && name[0] == '.') {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(rootStr, path)
		if err != nil {
			return err
		}

		files = append(files, m.Path(filepath.ToSlash(rel)))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileExists reports whether path is an existing regular file.
func (a *LocalSourceFSAdapter) FileExists(path m.Path) bool {
	info, err := os.Stat(string(path))

	return err == nil && info.Mode().IsRegular()
}

// ListDir returns the immediate entries of a directory.
func (a *LocalSourceFSAdapter) ListDir(path m.Path) ([]DirEntry, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, err
	}

	out := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, DirEntry{Name: entry.Name(), IsDir: entry.IsDir()})
	}

	return out, nil
}

// FindProjectRoot searches for any marker file walking up the
// directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path, markers []string) (m.Path, error) {
	dir := string(startPath)

	for {
		for _, marker := range markers {
			if a.FileExists(m.Path(filepath.Join(dir, marker))) {
				return m.Path(dir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no project marker found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
