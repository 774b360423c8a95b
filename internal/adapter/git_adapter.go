package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// GitAdapter abstracts the git queries used by the lint change policy.
type GitAdapter interface {
	// ChangedFiles returns paths (relative to root) changed against
	// base: committed since the merge base, staged, and unstaged.
	ChangedFiles(root m.Path, base string) ([]m.Path, error)
}

// LocalGitAdapter shells out to the git binary.
type LocalGitAdapter struct {
	timeout time.Duration
}

// NewLocalGitAdapter constructs a LocalGitAdapter with a default 30s
// timeout per git invocation.
func NewLocalGitAdapter() *LocalGitAdapter {
	return &LocalGitAdapter{
		timeout: 30 * time.Second,
	}
}

// ChangedFiles unions committed, staged, and unstaged changes so the
// policy sees the full changeset regardless of commit state.
func (a *LocalGitAdapter) ChangedFiles(root m.Path, base string) ([]m.Path, error) {
	seen := map[string]bool{}

	queries := [][]string{
		{"diff", "--name-only", base + "...HEAD"},
		{"diff", "--name-only", "--cached"},
		{"diff", "--name-only"},
	}

	for _, args := range queries {
		output, err := a.run(root, args)
		if err != nil {
			return nil, err
		}

		for _, line := range strings.Split(output, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				seen[line] = true
			}
		}
	}

	files := make([]m.Path, 0, len(seen))
	for path := range seen {
		files = append(files, m.Path(path))
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func (a *LocalGitAdapter) run(root m.Path, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = string(root)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
