// Package report renders the cross-cutting artifacts of a synthesis run:
// the master index, the conflict register, the deprecation map and the
// traceability matrix.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/specsynth/internal/model"
)

// Output filenames written next to the per-cluster specs
const (
	MasterIndexFile      = "ISA_MASTER_SPEC.md"
	ConflictRegisterFile = "CONFLICT_REGISTER.md"
	DeprecationMapFile   = "DEPRECATION_MAP.md"
	MatrixFile           = "TRACEABILITY_MATRIX.csv"
)

// RunMeta identifies one synthesis run. It only appears in the master index.
type RunMeta struct {
	RunID       string
	GeneratedAt time.Time
	Mode        model.ConfigMode
}

// NewRunMeta stamps a new run with a random ID and the current UTC time
func NewRunMeta(mode model.ConfigMode) RunMeta {
	return RunMeta{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Mode:        mode,
	}
}

// MasterIndex renders ISA_MASTER_SPEC.md for the given specs, in cluster order
func MasterIndex(specs []model.CanonicalSpec, meta RunMeta) string {
	var b strings.Builder

	b.WriteString(`# ISA Master Specification

**Status:** CURRENT (as-built)

## 1. Purpose

Authoritative index for canonical specifications.

## 2. Document Precedence

1. ISA_MASTER_SPEC.md
2. Canonical Spec Documents
3. Primary Authority Spine
4. Supporting Documents

## 3. Definitions

| Term | Definition |
|------|------------|
| CURRENT | As-built production state |
| ULTIMATE | Aspirational goals |
| IRON Gate | Quality checkpoint |
| Normative | MUST/SHALL/REQUIRED |

## 4. Canonical Specifications

| Cluster | Spec | Sources |
|---------|------|---------|
`)
	for _, s := range specs {
		fmt.Fprintf(&b, "| %s | [%s](%s) | %d |\n", s.ClusterName, s.Filename, s.Filename, len(s.CoreSources))
	}

	b.WriteString("\n## 5. Core Sources\n\n")
	for _, s := range specs {
		fmt.Fprintf(&b, "### %s\n\n", s.ClusterName)
		for i, src := range s.CoreSources {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "- `%s`\n", src)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 6. Run Metadata\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(&b, "| Run ID | %s |\n", meta.RunID)
	fmt.Fprintf(&b, "| Generated | %s |\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "| Config Mode | %s |\n", meta.Mode)
	if meta.Mode == model.ConfigModeFallback {
		b.WriteString("\n**WARNING:** Generated with built-in fallback defaults. Output is not reproducible; run with `--config RUN_CONFIG.json`.\n")
	}

	return b.String()
}
