package collector

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreSet holds compiled .gitignore-style patterns loaded from one
// directory tree, matched with doublestar.Match — the same real-ecosystem
// glob library referenced in other_examples/…devsandbox…proxy-filter.go
// for path-pattern exclusion, generalized here from proxy routing to
// walk-time file exclusion.
type ignoreSet struct {
	root     string
	patterns []string
}

// loadIgnore walks root collecting patterns from every .gitignore file it
// finds, rooted relative to root. A missing or unreadable tree yields an
// empty, inert ignoreSet rather than an error — ignore support is a
// courtesy, not a requirement.
func loadIgnore(root string) *ignoreSet {
	set := &ignoreSet{root: root}

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != ".gitignore" {
			return nil
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil
		}
		defer f.Close()

		dir := filepath.Dir(path)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			set.patterns = append(set.patterns, joinIgnorePattern(root, dir, line))
		}
		return nil
	})

	return set
}

func joinIgnorePattern(root, dir, pattern string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		rel = ""
	}
	pattern = strings.TrimPrefix(pattern, "/")
	if rel == "" {
		return pattern
	}
	return filepath.ToSlash(filepath.Join(rel, pattern))
}

// Matches reports whether path (relative to the ignoreSet's root, slash
// separated) is excluded by any loaded pattern.
func (s *ignoreSet) Matches(relPath string) bool {
	if s == nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
		// Directory-prefix patterns ("vendor/") should also exclude
		// everything beneath them when matched without a trailing glob.
		if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/")+"/**", relPath); ok {
			return true
		}
	}
	return false
}
