package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlobs expands log file globs into a deduplicated, sorted list of paths.
// A leading ~ is expanded to the home directory and blank patterns are ignored.
// A pattern that matches nothing is kept as a literal path, so the missing file
// is reported when its source is searched.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		pattern = expandHome(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}

	sort.Strings(result)
	return result, nil
}

// NewFileSources creates one FileSource per path.
func NewFileSources(paths []string) []LogSource {
	sources := make([]LogSource, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, NewFileSource(p))
	}
	return sources
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
