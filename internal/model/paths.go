package model

import "strings"

// CleanPath strips any leading "./" segments from a repo-relative path
func CleanPath(path string) string {
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}

// SpineSet is the configured primary authority spine, keyed by clean path
type SpineSet map[string]bool

// NewSpineSet builds a spine set from configured paths
func NewSpineSet(paths []string) SpineSet {
	s := make(SpineSet, len(paths))
	for _, p := range paths {
		s[CleanPath(p)] = true
	}
	return s
}

// Contains reports whether path, after cleaning, is on the spine
func (s SpineSet) Contains(path string) bool {
	return s[CleanPath(path)]
}
