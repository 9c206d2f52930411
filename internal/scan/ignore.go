package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ignoreMatcher filters scanned paths with layered ignore files:
// 1. .gitignore and related git ignore files (foundation)
// 2. .deployignore at the scan root (deploy-specific overrides)
type ignoreMatcher struct {
	matcher gitignore.Matcher
}

func newIgnoreMatcher(root string) *ignoreMatcher {
	fs := osfs.New(root)

	var allPatterns []gitignore.Pattern

	// Layer 1: standard gitignore patterns, when the root is a work tree
	if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
		allPatterns = append(allPatterns, gitPatterns...)
	}

	// Layer 2: .deployignore overrides
	if patterns, err := readIgnoreFile(filepath.Join(root, ".deployignore")); err == nil {
		for _, pattern := range patterns {
			allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &ignoreMatcher{matcher: gitignore.NewMatcher(allPatterns)}
}

// readIgnoreFile reads patterns from a text file (like .deployignore)
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

	return patterns, nil
}

// isIgnored checks whether a root-relative slash path should be skipped.
func (m *ignoreMatcher) isIgnored(relPath string, isDir bool) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}
