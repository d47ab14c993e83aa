package synth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/specsynth/internal/extract"
	"github.com/ppiankov/specsynth/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claim(path, statement string, intent model.NormativeIntent) model.Claim {
	return model.Claim{
		Statement:       statement,
		SourcePath:      path,
		SourceHeading:   "Rules",
		ShortQuote:      statement,
		NormativeIntent: intent,
	}
}

func TestGenerateSpec_SingleInvariant(t *testing.T) {
	claims := extract.ExtractClaims("## Rules\nThe system MUST validate inputs.\n", "a.md")
	require.Len(t, claims, 1)

	spec := GenerateSpec("Data Pipeline", "data-pipeline.md", []string{"a.md"}, claims, nil)

	require.Len(t, spec.Invariants, 1)
	assert.Contains(t, spec.Body, "**INV-1:** The system MUST validate inputs.\n- Source: `a.md` > Rules\n")
	assert.Contains(t, spec.Body, "1. `a.md`\n")
	assert.NotContains(t, spec.Body, "No explicit MUST-level invariants")
}

func TestGenerateSpec_TraceabilityCap(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.Configuration.MaxClaimsInTraceabilityPerCluster = 2

	var claims []model.Claim
	for i := 0; i < 5; i++ {
		claims = append(claims, claim("a.md", fmt.Sprintf("Claim number %d MUST hold for every release.", i), model.IntentExplicit))
	}

	spec := GenerateSpec("Governance", "governance.md", []string{"a.md"}, claims, cfg)
	require.Len(t, spec.Traceability, 2)

	rows := TraceRows(spec, model.NewDocumentIndex([]model.Document{{Path: "a.md"}}))
	require.Len(t, rows, 2)
	assert.Equal(t, "GOV-001", rows[0].ClaimID)
	assert.Equal(t, "GOV-002", rows[1].ClaimID)
	assert.Equal(t, 2, strings.Count(spec.Body, "| GOV-00"))
}

func TestGenerateSpec_NoInvariantsMarker(t *testing.T) {
	claims := []model.Claim{claim("a.md", "Operators should review dashboards weekly.", model.IntentImplicit)}

	spec := GenerateSpec("Ops", "ops.md", []string{"a.md"}, claims, nil)

	assert.Empty(t, spec.Invariants)
	assert.Contains(t, spec.Body, "*No explicit MUST-level invariants. See OPEN ISSUES.*")
	assert.Contains(t, spec.Body, "- AC-1: Operators should review dashboards weekly.\n")
}

func TestGenerateSpec_ObservabilitySection(t *testing.T) {
	spec := GenerateSpec("Evaluation Harness", "eval.md", nil, nil, nil)
	assert.Contains(t, spec.Body, "## 7. Observability\n\n*See source documents.*")

	spec = GenerateSpec("Ingestion", "ingestion.md", nil, nil, nil)
	assert.Contains(t, spec.Body, "**OPEN ISSUE:** Define observability hooks.")
}

func TestGenerateSpec_FiltersNonCoreSources(t *testing.T) {
	claims := []model.Claim{
		claim("core.md", "Core document MUST be honored by the system.", model.IntentExplicit),
		claim("other.md", "Other document MUST be ignored by the generator.", model.IntentExplicit),
	}

	spec := GenerateSpec("Core", "core.md", []string{"core.md"}, claims, nil)

	require.Len(t, spec.Traceability, 1)
	assert.Equal(t, "core.md", spec.Traceability[0].SourcePath)
}

func TestGenerateSpec_Caps(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.Configuration.MaxMustInvariantsPerSpec = 2
	cfg.Configuration.MaxImplicitClaimsPerSpec = 1

	var claims []model.Claim
	for i := 0; i < 4; i++ {
		claims = append(claims, claim("a.md", fmt.Sprintf("Explicit rule %d MUST apply to all tenants.", i), model.IntentExplicit))
		claims = append(claims, claim("a.md", fmt.Sprintf("Implicit rule %d should apply to all tenants.", i), model.IntentImplicit))
	}

	spec := GenerateSpec("Tenancy", "tenancy.md", []string{"a.md"}, claims, cfg)

	assert.Len(t, spec.Invariants, 2)
	assert.Len(t, spec.Acceptance, 1)
	assert.NotContains(t, spec.Body, "**INV-3:**")
	assert.NotContains(t, spec.Body, "- AC-2:")
}

func TestGenerateSpec_CoreSourcesDisplayCap(t *testing.T) {
	var sources []string
	for i := 0; i < 12; i++ {
		sources = append(sources, fmt.Sprintf("doc-%02d.md", i))
	}

	spec := GenerateSpec("Wide", "wide.md", sources, nil, nil)

	assert.Contains(t, spec.Body, "10. `doc-09.md`")
	assert.NotContains(t, spec.Body, "doc-10.md")
	assert.Len(t, spec.CoreSources, 12)
}

func TestGenerateSpec_AnnexEscaping(t *testing.T) {
	claims := []model.Claim{claim("a.md", "Inputs MUST match a|b|c before being stored anywhere in the system today.", model.IntentExplicit)}

	spec := GenerateSpec("Pipes", "pipes.md", []string{"a.md"}, claims, nil)

	assert.Contains(t, spec.Body, "| PIP-001 | Inputs MUST match a/b/c before being stored anywhere in the ... | `a.md` |")
}

func TestGenerateSpec_Deterministic(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.PrimaryAuthoritySpine = []string{"spine.md"}
	claims := []model.Claim{
		claim("a.md", "First rule should be applied by each service.", model.IntentImplicit),
		claim("spine.md", "Spine rule MUST be applied by each service.", model.IntentExplicit),
		claim("a.md", "Second rule MUST be applied by each service.", model.IntentExplicit),
	}
	sources := []string{"a.md", "spine.md"}

	first := GenerateSpec("Rules", "rules.md", sources, claims, cfg)
	second := GenerateSpec("Rules", "rules.md", sources, claims, cfg)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("GenerateSpec not deterministic (-first +second):\n%s", diff)
	}
}

func TestTraceRows_Untraceable(t *testing.T) {
	claims := []model.Claim{
		claim("indexed.md", "Indexed rule MUST be traceable in the matrix.", model.IntentExplicit),
		claim("ghost.md", "Ghost rule MUST be flagged in the matrix output.", model.IntentExplicit),
	}
	spec := GenerateSpec("Trace", "trace.md", []string{"indexed.md", "ghost.md"}, claims, nil)

	rows := TraceRows(spec, model.NewDocumentIndex([]model.Document{{Path: "indexed.md"}}))

	require.Len(t, rows, 2)
	assert.Equal(t, model.TraceStatusTraceable, rows[0].Status)
	assert.Equal(t, model.TraceStatusUntraceable, rows[1].Status)
	assert.Equal(t, "trace.md", rows[0].CanonicalSpec)
}

func TestTraceRows_Truncation(t *testing.T) {
	long := "Every component MUST " + strings.Repeat("x", 300)
	c := claim("a.md", long, model.IntentExplicit)
	c.ShortQuote = strings.Repeat("q", 150)

	spec := GenerateSpec("Long", "long.md", []string{"a.md"}, []model.Claim{c}, nil)
	rows := TraceRows(spec, model.NewDocumentIndex([]model.Document{{Path: "a.md"}}))

	require.Len(t, rows, 1)
	assert.Len(t, []rune(rows[0].Statement), 200)
	assert.Len(t, []rune(rows[0].ShortQuote), 100)
}
