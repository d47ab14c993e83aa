package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/specsynth/internal/model"
)

// DeprecationStatus is the lifecycle status of a source document
type DeprecationStatus string

const (
	StatusAuthoritySpine DeprecationStatus = "authority_spine"
	StatusActive         DeprecationStatus = "active"
	StatusDuplicate      DeprecationStatus = "duplicate"
	StatusArchived       DeprecationStatus = "archived"
	StatusExcluded       DeprecationStatus = "excluded"
)

const notApplicable = "N/A"

// StatusClassifier assigns exactly one DeprecationStatus to a document path.
// Precedence: authority_spine, excluded, duplicate, archived, active.
type StatusClassifier struct {
	spine      model.SpineSet
	excluded   map[string]bool
	duplicates map[string]string // duplicate path -> canonical path
	historical map[string]bool
}

// NewStatusClassifier builds a classifier from the run config and document inventory
func NewStatusClassifier(cfg *model.RunConfig, index *model.DocumentIndex) *StatusClassifier {
	if cfg == nil {
		cfg = model.DefaultRunConfig()
	}

	c := &StatusClassifier{
		spine:      model.NewSpineSet(cfg.PrimaryAuthoritySpine),
		excluded:   make(map[string]bool),
		duplicates: FindDuplicates(index.Documents()),
		historical: make(map[string]bool),
	}
	for _, p := range cfg.Exclusions.UltimateDocuments {
		c.excluded[model.CleanPath(p)] = true
	}
	for _, d := range index.Documents() {
		if d.DocumentStatus == model.StatusHistorical {
			c.historical[d.Path] = true
		}
	}
	return c
}

// Classify returns the status of path
func (c *StatusClassifier) Classify(path string) DeprecationStatus {
	switch {
	case c.spine.Contains(path):
		return StatusAuthoritySpine
	case c.excluded[model.CleanPath(path)]:
		return StatusExcluded
	case c.duplicates[path] != "":
		return StatusDuplicate
	case c.historical[path]:
		return StatusArchived
	default:
		return StatusActive
	}
}

// CanonicalOf returns the canonical copy of a duplicate path
func (c *StatusClassifier) CanonicalOf(path string) (string, bool) {
	canonical, ok := c.duplicates[path]
	return canonical, ok
}

// FindDuplicates groups documents by bare filename. Within a group the
// shortest path is canonical (first in inventory order on ties) and every
// other path maps to it.
func FindDuplicates(docs []model.Document) map[string]string {
	byName := make(map[string][]string)
	var names []string
	for _, d := range docs {
		name := baseName(d.Path)
		if _, ok := byName[name]; !ok {
			names = append(names, name)
		}
		byName[name] = append(byName[name], d.Path)
	}

	duplicates := make(map[string]string)
	for _, name := range names {
		paths := byName[name]
		if len(paths) < 2 {
			continue
		}
		sorted := make([]string, len(paths))
		copy(sorted, paths)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i]) < len(sorted[j])
		})
		canonical := sorted[0]
		for _, p := range paths {
			if p != canonical {
				duplicates[p] = canonical
			}
		}
	}
	return duplicates
}

// DeprecationMap renders DEPRECATION_MAP.md
func DeprecationMap(specs []model.CanonicalSpec, index *model.DocumentIndex, cfg *model.RunConfig) string {
	if cfg == nil {
		cfg = model.DefaultRunConfig()
	}
	classifier := NewStatusClassifier(cfg, index)

	// Later clusters win when a source is shared. cleanSpec resolves
	// spine entries against sources listed as ./path.
	sourceSpec := make(map[string]string)
	cleanSpec := make(map[string]string)
	var sources []string
	for _, s := range specs {
		for _, src := range s.CoreSources {
			if _, ok := sourceSpec[src]; !ok {
				sources = append(sources, src)
			}
			sourceSpec[src] = s.Filename
			cleanSpec[model.CleanPath(src)] = s.Filename
		}
	}
	sort.Strings(sources)

	specFor := func(path string) string {
		if fn, ok := sourceSpec[path]; ok {
			return fn
		}
		if fn, ok := cleanSpec[model.CleanPath(path)]; ok {
			return fn
		}
		return notApplicable
	}

	var b strings.Builder
	b.WriteString(`# Deprecation Map

**Status:** Phase 3 Synthesis

## Status Legend

| Status | Definition |
|--------|------------|
| ` + "`authority_spine`" + ` | Primary authority document, highest precedence |
| ` + "`active`" + ` | Core source for canonical spec |
| ` + "`supporting`" + ` | Non-normative context document |
| ` + "`deprecated`" + ` | Content superseded, pending removal |
| ` + "`superseded`" + ` | Content merged into canonical spec |
| ` + "`duplicate`" + ` | Redundant copy of another document |
| ` + "`archived`" + ` | Historical reference only |
| ` + "`excluded`" + ` | Explicitly excluded with rationale |

## Document Mapping

| Document | Canonical Spec | Status | Replaced By | Rationale |
|----------|---------------|--------|-------------|-----------|
`)

	spine := spinePaths(cfg.PrimaryAuthoritySpine)
	for _, p := range spine {
		fmt.Fprintf(&b, "| `./%s` | %s | %s | — | Primary authority |\n", p, specFor(p), StatusAuthoritySpine)
	}

	active := 0
	for _, src := range sources {
		status := classifier.Classify(src)
		switch status {
		case StatusAuthoritySpine:
			continue
		case StatusExcluded:
			fmt.Fprintf(&b, "| `%s` | %s | %s | — | ULTIMATE document, not CURRENT |\n", src, specFor(src), status)
		case StatusDuplicate:
			canonical, _ := classifier.CanonicalOf(src)
			fmt.Fprintf(&b, "| `%s` | %s | %s | `%s` | Redundant copy |\n", src, specFor(src), status, canonical)
		case StatusArchived:
			fmt.Fprintf(&b, "| `%s` | %s | %s | — | Historical reference |\n", src, specFor(src), status)
		default:
			fmt.Fprintf(&b, "| `%s` | %s | %s | — | Core source |\n", src, specFor(src), status)
			active++
		}
	}

	b.WriteString("\n## Excluded Documents\n\n")
	b.WriteString("| Document | Status | Rationale |\n")
	b.WriteString("|----------|--------|----------|\n")
	for _, p := range cfg.Exclusions.UltimateDocuments {
		fmt.Fprintf(&b, "| `./%s` | %s | ULTIMATE document, not CURRENT |\n", model.CleanPath(p), StatusExcluded)
	}

	duplicates := FindDuplicates(index.Documents())
	dupPaths := make([]string, 0, len(duplicates))
	for p := range duplicates {
		dupPaths = append(dupPaths, p)
	}
	sort.Strings(dupPaths)

	b.WriteString("\n## Duplicate Documents\n\n")
	b.WriteString("| Duplicate | Canonical | Rationale |\n")
	b.WriteString("|-----------|-----------|-----------|\n")
	for _, p := range dupPaths {
		fmt.Fprintf(&b, "| `%s` | `%s` | Same filename, shorter path is canonical |\n", p, duplicates[p])
	}
	if len(dupPaths) == 0 {
		b.WriteString("*No duplicates identified.*\n")
	}

	b.WriteString("\n## Historical Documents\n\n")
	b.WriteString("| Document | Canonical Spec | Rationale |\n")
	b.WriteString("|----------|---------------|-----------|\n")
	historical := 0
	for _, d := range index.Documents() {
		if d.DocumentStatus != model.StatusHistorical {
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %s | Historical reference only |\n", d.Path, specFor(d.Path))
		historical++
	}
	if historical == 0 {
		b.WriteString("*No historical documents identified.*\n")
	}

	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- **Authority Spine:** %d documents\n", len(spine))
	fmt.Fprintf(&b, "- **Active Sources:** %d documents\n", active)
	fmt.Fprintf(&b, "- **Duplicates:** %d documents\n", len(dupPaths))
	fmt.Fprintf(&b, "- **Historical:** %d documents\n", historical)
	fmt.Fprintf(&b, "- **Excluded:** %d documents\n", len(cfg.Exclusions.UltimateDocuments))

	return b.String()
}

// spinePaths returns the distinct clean spine paths, sorted
func spinePaths(paths []string) []string {
	set := model.NewSpineSet(paths)
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
