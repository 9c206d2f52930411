// Package scan discovers deployable files under an outputs directory.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner walks an outputs directory for candidate files.
type Scanner struct {
	root     string
	excludes []string
}

// New creates a scanner for root. Exclude patterns are doublestar globs
// matched against the root-relative slash path.
func New(root string, excludes []string) *Scanner {
	return &Scanner{root: root, excludes: excludes}
}

// Scan returns the candidate file paths in sorted order so a run's log
// ordering is deterministic. Hidden files and directories (dot-prefixed)
// are skipped, as are paths claimed by .gitignore/.deployignore layering or
// the configured exclude globs. A missing root is "nothing to deploy":
// empty result, no error.
func (s *Scanner) Scan() ([]string, error) {
	if _, err := os.Stat(s.root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat outputs directory %s: %w", s.root, err)
	}

	ignore := newIgnoreMatcher(s.root)

	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == s.root {
			return nil
		}

		name := d.Name()
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = name
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(name, ".") || ignore.isIgnored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.HasPrefix(name, ".") || ignore.isIgnored(rel, false) {
			return nil
		}
		for _, pattern := range s.excludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	sort.Strings(files)
	return files, nil
}
