// Package synth turns a cluster's core sources and claims into its
// canonical specification and traceability rows.
package synth

import (
	"fmt"
	"strings"

	"github.com/ppiankov/specsynth/internal/extract"
	"github.com/ppiankov/specsynth/internal/model"
)

// Rendering caps that are not configurable
const (
	maxDisplayedSources   = 10
	invariantRunes        = 200
	acceptanceRunes       = 150
	annexStatementRunes   = 60
	matrixStatementRunes  = 200
	matrixShortQuoteRunes = 100
)

// GenerateSpec builds the canonical specification of one cluster. The
// output depends only on its arguments.
func GenerateSpec(name, filename string, coreSources []string, claims []model.Claim, cfg *model.RunConfig) model.CanonicalSpec {
	if cfg == nil {
		cfg = model.DefaultRunConfig()
	}
	limits := cfg.Configuration

	unique := DedupeClaims(FilterBySources(claims, coreSources))
	ordered := OrderClaims(unique, model.NewSpineSet(cfg.PrimaryAuthoritySpine))

	spec := model.CanonicalSpec{
		ClusterName:  name,
		Filename:     filename,
		CoreSources:  coreSources,
		Invariants:   byIntent(ordered, model.IntentExplicit, limits.MaxMustInvariantsPerSpec),
		Acceptance:   byIntent(ordered, model.IntentImplicit, limits.MaxImplicitClaimsPerSpec),
		Traceability: head(ordered, limits.MaxClaimsInTraceabilityPerCluster),
	}
	spec.Body = render(spec)
	return spec
}

func render(spec model.CanonicalSpec) string {
	var b strings.Builder
	name := spec.ClusterName

	fmt.Fprintf(&b, "# %s\n\n", name)
	b.WriteString("**Canonical Specification**\n")
	b.WriteString("**Status:** CURRENT (as-built)\n\n")

	b.WriteString("## 1. Identity\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", name)
	fmt.Fprintf(&b, "- **Scope:** CURRENT state of %s\n", strings.ToLower(name))
	b.WriteString("- **Marker:** CURRENT (as-built) — not ULTIMATE\n\n")

	b.WriteString("## 2. Core Sources\n\n")
	for i, src := range spec.CoreSources {
		if i >= maxDisplayedSources {
			break
		}
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, src)
	}

	b.WriteString("\n## 3. Definitions\n\n")
	b.WriteString("*See ISA_MASTER_SPEC.md*\n\n")

	b.WriteString("## 4. Invariants (MUST-level)\n\n")
	if len(spec.Invariants) == 0 {
		b.WriteString("*No explicit MUST-level invariants. See OPEN ISSUES.*\n\n")
	}
	for i, c := range spec.Invariants {
		fmt.Fprintf(&b, "**INV-%d:** %s\n", i+1, extract.Truncate(c.Statement, invariantRunes))
		fmt.Fprintf(&b, "- Source: `%s` > %s\n\n", c.SourcePath, c.SourceHeading)
	}

	b.WriteString("## 5. Interfaces / Pipelines\n\n")
	b.WriteString("*See source documents.*\n\n")

	b.WriteString("## 6. Governance & Change Control\n\n")
	b.WriteString("1. Review source documents\n")
	b.WriteString("2. Update TRACEABILITY_MATRIX.csv\n")
	b.WriteString("3. Follow governance rules\n\n")

	b.WriteString("## 7. Observability\n\n")
	if strings.Contains(name, "Observability") || strings.Contains(name, "Evaluation") {
		b.WriteString("*See source documents.*\n\n")
	} else {
		b.WriteString("**OPEN ISSUE:** Define observability hooks.\n\n")
	}

	b.WriteString("## 8. Acceptance Criteria\n\n")
	for i, c := range spec.Acceptance {
		fmt.Fprintf(&b, "- AC-%d: %s\n", i+1, extract.Truncate(c.Statement, acceptanceRunes))
	}

	b.WriteString("\n## 9. Traceability Annex\n\n")
	b.WriteString("| Claim ID | Statement | Source |\n")
	b.WriteString("|----------|-----------|--------|\n")
	for i, c := range spec.Traceability {
		stmt := extract.Truncate(c.Statement, annexStatementRunes)
		stmt = strings.NewReplacer("|", "/", "\n", " ").Replace(stmt)
		fmt.Fprintf(&b, "| %s | %s... | `%s` |\n", ClaimID(name, i+1), stmt, c.SourcePath)
	}

	return b.String()
}

// TraceRows converts a spec's retained claims into traceability rows.
// Sequence numbers restart at 1 for every cluster. A claim whose source
// is not in the document index is marked untraceable.
func TraceRows(spec model.CanonicalSpec, index *model.DocumentIndex) []model.TraceabilityRow {
	rows := make([]model.TraceabilityRow, 0, len(spec.Traceability))

	for i, c := range spec.Traceability {
		status := model.TraceStatusTraceable
		if _, ok := index.Lookup(c.SourcePath); !ok {
			status = model.TraceStatusUntraceable
		}

		rows = append(rows, model.TraceabilityRow{
			CanonicalSpec: spec.Filename,
			ClaimID:       ClaimID(spec.ClusterName, i+1),
			Statement:     extract.Truncate(c.Statement, matrixStatementRunes),
			SourcePath:    c.SourcePath,
			SourceHeading: c.SourceHeading,
			ShortQuote:    extract.Truncate(c.ShortQuote, matrixShortQuoteRunes),
			Status:        status,
		})
	}

	return rows
}
