package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/specsynth/internal/model"
)

func TestFindDuplicates_ShortestPathIsCanonical(t *testing.T) {
	docs := []model.Document{
		{Path: "dir1/x.md"},
		{Path: "x.md"},
		{Path: "y.md"},
	}

	dups := FindDuplicates(docs)

	assert.Equal(t, map[string]string{"dir1/x.md": "x.md"}, dups)
}

func TestFindDuplicates_TieKeepsInventoryOrder(t *testing.T) {
	docs := []model.Document{
		{Path: "bb/x.md"},
		{Path: "aa/x.md"},
	}

	dups := FindDuplicates(docs)

	assert.Equal(t, map[string]string{"aa/x.md": "bb/x.md"}, dups)
}

func TestStatusClassifier_Classify(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.PrimaryAuthoritySpine = []string{"./spine.md"}
	cfg.Exclusions.UltimateDocuments = []string{"vision.md"}
	index := model.NewDocumentIndex([]model.Document{
		{Path: "spine.md", DocumentStatus: model.StatusHistorical},
		{Path: "old.md", DocumentStatus: model.StatusHistorical},
		{Path: "live.md", DocumentStatus: model.StatusActive},
		{Path: "copy/live.md", DocumentStatus: model.StatusHistorical},
		{Path: "vision.md"},
	})

	c := NewStatusClassifier(cfg, index)

	tests := []struct {
		path     string
		expected DeprecationStatus
	}{
		{"spine.md", StatusAuthoritySpine},
		{"./spine.md", StatusAuthoritySpine},
		{"vision.md", StatusExcluded},
		{"copy/live.md", StatusDuplicate},
		{"old.md", StatusArchived},
		{"live.md", StatusActive},
		{"unknown.md", StatusActive},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.path); got != tt.expected {
			t.Errorf("Classify(%q): expected %s, got %s", tt.path, tt.expected, got)
		}
	}

	canonical, ok := c.CanonicalOf("copy/live.md")
	assert.True(t, ok)
	assert.Equal(t, "live.md", canonical)
}

func TestDeprecationMap_Duplicate(t *testing.T) {
	index := model.NewDocumentIndex([]model.Document{
		{Path: "dir1/x.md", DocumentStatus: model.StatusActive},
		{Path: "x.md", DocumentStatus: model.StatusActive},
	})
	specs := []model.CanonicalSpec{
		{ClusterName: "Core", Filename: "core.md", CoreSources: []string{"x.md", "dir1/x.md"}},
	}

	out := DeprecationMap(specs, index, nil)

	assert.Contains(t, out, "| `dir1/x.md` | core.md | duplicate | `x.md` | Redundant copy |")
	assert.Contains(t, out, "| `x.md` | core.md | active | — | Core source |")
	assert.Contains(t, out, "| `dir1/x.md` | `x.md` | Same filename, shorter path is canonical |")
	assert.Contains(t, out, "- **Duplicates:** 1 documents")
	assert.Contains(t, out, "- **Active Sources:** 1 documents")
}

func TestDeprecationMap_SpineHistoricalExcluded(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.PrimaryAuthoritySpine = []string{"spine.md", "./spine.md", "missing.md"}
	cfg.Exclusions.UltimateDocuments = []string{"ultimate.md"}
	index := model.NewDocumentIndex([]model.Document{
		{Path: "spine.md"},
		{Path: "history.md", DocumentStatus: model.StatusHistorical},
		{Path: "ultimate.md"},
	})
	specs := []model.CanonicalSpec{
		{ClusterName: "Core", Filename: "core.md", CoreSources: []string{"spine.md", "history.md", "ultimate.md"}},
	}

	out := DeprecationMap(specs, index, cfg)

	assert.Contains(t, out, "| `./spine.md` | core.md | authority_spine | — | Primary authority |")
	assert.Contains(t, out, "| `./missing.md` | N/A | authority_spine | — | Primary authority |")
	assert.NotContains(t, out, "| `spine.md` |", "spine sources only appear once, in spine form")
	assert.Contains(t, out, "| `history.md` | core.md | archived | — | Historical reference |")
	assert.Contains(t, out, "| `history.md` | core.md | Historical reference only |")
	assert.Contains(t, out, "| `ultimate.md` | core.md | excluded | — | ULTIMATE document, not CURRENT |")
	assert.Contains(t, out, "| `./ultimate.md` | excluded | ULTIMATE document, not CURRENT |")
	assert.Contains(t, out, "*No duplicates identified.*")
	assert.Contains(t, out, "- **Authority Spine:** 2 documents")
	assert.Contains(t, out, "- **Active Sources:** 0 documents")
	assert.Contains(t, out, "- **Historical:** 1 documents")
	assert.Contains(t, out, "- **Excluded:** 1 documents")
}

func TestDeprecationMap_SpineResolvesDotSlashSource(t *testing.T) {
	cfg := model.DefaultRunConfig()
	cfg.PrimaryAuthoritySpine = []string{"docs/AUTH.md"}
	index := model.NewDocumentIndex([]model.Document{{Path: "docs/AUTH.md"}})
	specs := []model.CanonicalSpec{
		{ClusterName: "Governance", Filename: "gov.md", CoreSources: []string{"./docs/AUTH.md", "./docs/rules.md"}},
	}

	out := DeprecationMap(specs, index, cfg)

	assert.Contains(t, out, "| `./docs/AUTH.md` | gov.md | authority_spine | — | Primary authority |")
	assert.NotContains(t, out, "| `./docs/AUTH.md` | N/A |")
	assert.Contains(t, out, "| `./docs/rules.md` | gov.md | active | — | Core source |")
	assert.Contains(t, out, "- **Authority Spine:** 1 documents")
}

func TestDeprecationMap_NoHistorical(t *testing.T) {
	out := DeprecationMap(nil, model.NewDocumentIndex(nil), nil)

	assert.Contains(t, out, "*No historical documents identified.*")
	assert.Contains(t, out, "- **Authority Spine:** 0 documents")
}
