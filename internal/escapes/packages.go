package escapes

import (
	"strings"

	m "github.com/hatchet-lint/hatchet/internal/model"
)

// findPackage attributes a path to one of the configured package
// patterns. An exact pattern like "tools/gen" names the package after
// its last component; a wildcard pattern like "crates/*" names it
// after the first path component under the prefix. Empty means no
// package claims the path.
func findPackage(packages []string, path m.Path) string {
	rel := string(path)

	for _, pkg := range packages {
		prefix := strings.TrimSuffix(pkg, "/*")
		if !strings.HasPrefix(rel, prefix) {
			continue
		}

		if strings.HasSuffix(pkg, "/*") {
			rest := strings.TrimPrefix(strings.TrimPrefix(rel, prefix), "/")
			if name, _, _ := strings.Cut(rest, "/"); name != "" {
				return name
			}

			continue
		}

		parts := strings.Split(pkg, "/")

		return parts[len(parts)-1]
	}

	return ""
}
