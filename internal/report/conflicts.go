package report

import (
	"fmt"
	"strings"

	"github.com/ppiankov/specsynth/internal/extract"
	"github.com/ppiankov/specsynth/internal/model"
)

const (
	maxConflictsPerCluster = 5
	maxConflictDocuments   = 3
	maxTopConflicts        = 10
	topicRunes             = 40
	clusterColumnRunes     = 25
	unknownTopic           = "Unknown"
)

// Priority is the resolution priority of a conflict
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var topicPriority = map[string]Priority{
	"gate_definitions":   PriorityHigh,
	"normative_rules":    PriorityHigh,
	"embedding_model":    PriorityMedium,
	"retrieval_strategy": PriorityMedium,
	"database_config":    PriorityLow,
}

// TopicPriority looks up the priority of a conflict topic. Unknown topics are Medium.
func TopicPriority(topic string) Priority {
	if p, ok := topicPriority[topic]; ok {
		return p
	}
	return PriorityMedium
}

// Conflict is one registered conflict between source documents
type Conflict struct {
	ID        int
	Cluster   string
	Topic     string
	Priority  Priority
	Documents []string
}

// Label formats the conflict ID, e.g. "CONF-007"
func (c Conflict) Label() string {
	return fmt.Sprintf("CONF-%03d", c.ID)
}

// ConflictCursor hands out conflict IDs across clusters. IDs increase in
// cluster iteration order and are never reused within a run.
type ConflictCursor struct {
	next int
}

// NewConflictCursor starts numbering at CONF-001
func NewConflictCursor() ConflictCursor {
	return ConflictCursor{next: 1}
}

// Next returns the ID the cursor will assign next
func (c ConflictCursor) Next() int {
	if c.next < 1 {
		return 1
	}
	return c.next
}

// Collect registers up to five conflict sets of cluster and returns them
// with the advanced cursor.
func (c ConflictCursor) Collect(cluster model.Cluster) ([]Conflict, ConflictCursor) {
	id := c.Next()
	sets := cluster.ConflictSets
	if len(sets) > maxConflictsPerCluster {
		sets = sets[:maxConflictsPerCluster]
	}

	conflicts := make([]Conflict, 0, len(sets))
	for _, set := range sets {
		topic := set.Topic
		if topic == "" {
			topic = unknownTopic
		}
		topic = extract.Truncate(topic, topicRunes)

		docs := set.Documents
		if len(docs) > maxConflictDocuments {
			docs = docs[:maxConflictDocuments]
		}

		conflicts = append(conflicts, Conflict{
			ID:        id,
			Cluster:   cluster.Name,
			Topic:     topic,
			Priority:  TopicPriority(topic),
			Documents: docs,
		})
		id++
	}

	return conflicts, ConflictCursor{next: id}
}

// ConflictStats counts registered conflicts by priority
type ConflictStats struct {
	Total  int
	High   int
	Medium int
	Low    int
}

// CountConflicts tallies conflicts by priority
func CountConflicts(conflicts []Conflict) ConflictStats {
	stats := ConflictStats{Total: len(conflicts)}
	for _, c := range conflicts {
		switch c.Priority {
		case PriorityHigh:
			stats.High++
		case PriorityLow:
			stats.Low++
		default:
			stats.Medium++
		}
	}
	return stats
}

// ConflictRegister renders CONFLICT_REGISTER.md
func ConflictRegister(conflicts []Conflict) string {
	var b strings.Builder

	b.WriteString(`# Conflict Register

**Status:** Phase 3 Synthesis

## Overview

This register documents semantic conflicts identified during Phase 3 canonical spec synthesis. Each conflict represents competing or contradictory statements across source documents that require manual resolution.

## Conflict Summary

| Conflict ID | Cluster | Topic | Priority | Status | Owner |
|-------------|---------|-------|----------|--------|-------|
`)
	for _, c := range conflicts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | OPEN | TBD |\n",
			c.Label(), extract.Truncate(c.Cluster, clusterColumnRunes), c.Topic, c.Priority)
	}

	stats := CountConflicts(conflicts)
	fmt.Fprintf(&b, `
## Statistics

| Metric | Count |
|--------|-------|
| Total Conflicts | %d |
| High Priority | %d |
| Medium Priority | %d |
| Low Priority | %d |
| Open | %d |
| Resolved | 0 |

## Top 10 High-Impact Conflicts

These conflicts should be resolved first as they affect core governance and normative rules.

`, stats.Total, stats.High, stats.Medium, stats.Low, stats.Total)

	shown := 0
	for _, c := range conflicts {
		if c.Priority != PriorityHigh {
			continue
		}
		if shown >= maxTopConflicts {
			break
		}
		writeConflictCard(&b, c)
		shown++
	}

	b.WriteString(`## Resolution Guidelines

When resolving conflicts:

1. **Identify Authority:** Check if one source is in the authority spine (highest precedence)
2. **Check Timestamps:** More recent documents may supersede older ones
3. **Verify Intent:** Determine if the conflict is semantic (real disagreement) or syntactic (different wording, same meaning)
4. **Document Decision:** Update this register with resolution rationale
5. **Update Canonical Spec:** Ensure the canonical spec reflects the resolved statement

## All Conflicts by Cluster

`)
	current := ""
	for i, c := range conflicts {
		if i == 0 || c.Cluster != current {
			current = c.Cluster
			fmt.Fprintf(&b, "### %s\n\n", current)
		}

		names := make([]string, len(c.Documents))
		for j, d := range c.Documents {
			names[j] = "`" + baseName(d) + "`"
		}
		fmt.Fprintf(&b, "- **%s:** %s (%s) - Sources: %s\n", c.Label(), c.Topic, c.Priority, strings.Join(names, ", "))
	}

	return b.String()
}

func writeConflictCard(b *strings.Builder, c Conflict) {
	fmt.Fprintf(b, "### %s: %s (%s)\n\n", c.Label(), c.Topic, c.Cluster)
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| **Conflict ID** | %s |\n", c.Label())
	fmt.Fprintf(b, "| **Cluster** | %s |\n", c.Cluster)
	fmt.Fprintf(b, "| **Topic** | %s |\n", c.Topic)
	fmt.Fprintf(b, "| **Priority** | %s |\n", c.Priority)
	b.WriteString("| **Status** | OPEN |\n")
	b.WriteString("| **Owner** | TBD |\n\n")

	b.WriteString("**Competing Documents:**\n\n")
	for i, doc := range c.Documents {
		fmt.Fprintf(b, "- **Source %c:** `%s`\n", rune('A'+i), doc)
	}

	b.WriteString("\n**Proposed Resolution:** UNRESOLVED\n\n")
	b.WriteString("**Next Action:** Review source documents and determine authoritative statement\n\n")
	b.WriteString("---\n\n")
}

// baseName returns the part of a slash-separated path after the last slash
func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
