package score

import (
	"sort"

	"github.com/ppiankov/specsynth/internal/model"
)

// Weight names as they appear in scoring_weights and ScoredSource.Terms
const (
	TermNormativeCandidate = "NORMATIVE_CANDIDATE_status"
	TermExplicitIntent     = "explicit_normative_intent"
	TermImplicitIntent     = "implicit_normative_intent"
	TermAuthorityCandidate = "authority_candidate"
	TermAuthoritySpine     = "primary_authority_spine"
	TermCoreDocument       = "core_document_in_cluster"
)

// Selector scores a cluster's candidate documents and picks its core sources
type Selector struct {
	weights model.ScoringWeights
	limits  model.Limits
	spine   model.SpineSet
}

// NewSelector creates a selector from the run configuration
func NewSelector(cfg *model.RunConfig) *Selector {
	if cfg == nil {
		cfg = model.DefaultRunConfig()
	}
	return &Selector{
		weights: cfg.ScoringWeights,
		limits:  cfg.Configuration,
		spine:   model.NewSpineSet(cfg.PrimaryAuthoritySpine),
	}
}

// Select returns the core sources of cluster, highest score first
func (s *Selector) Select(cluster model.Cluster, index *model.DocumentIndex) []string {
	return s.Take(s.Rank(cluster, index))
}

// Take returns the paths of the leading ranked candidates within the
// configured selection bounds
func (s *Selector) Take(ranked []model.ScoredSource) []string {
	n := SelectedCount(len(ranked), s.limits)

	sources := make([]string, 0, n)
	for _, r := range ranked[:n] {
		sources = append(sources, r.Path)
	}
	return sources
}

// Rank scores every candidate and sorts by descending score. Equal scores
// keep candidate pool order.
func (s *Selector) Rank(cluster model.Cluster, index *model.DocumentIndex) []model.ScoredSource {
	pool := CandidatePool(cluster, s.limits.DedupeCandidatePool)

	ranked := make([]model.ScoredSource, 0, len(pool))
	for _, path := range pool {
		doc, _ := index.Lookup(path)
		score, terms := s.Score(path, doc, cluster.IsIncluded(path))
		ranked = append(ranked, model.ScoredSource{Path: path, Score: score, Terms: terms})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Score sums the weighted terms that fire for one candidate and returns
// the breakdown by weight name. Negative weights are clamped to zero so a
// score never decreases when a condition is added.
func (s *Selector) Score(path string, doc model.Document, included bool) (int, map[string]int) {
	terms := make(map[string]int)
	add := func(name string, weight int) {
		if weight < 0 {
			weight = 0
		}
		terms[name] = weight
	}

	if doc.DocumentStatus == model.StatusNormativeCandidate {
		add(TermNormativeCandidate, s.weights.NormativeCandidateStatus)
	}

	switch doc.NormativeIntent {
	case model.IntentExplicit:
		add(TermExplicitIntent, s.weights.ExplicitNormativeIntent)
	case model.IntentImplicit:
		add(TermImplicitIntent, s.weights.ImplicitNormativeIntent)
	}

	if doc.AuthorityCandidate {
		add(TermAuthorityCandidate, s.weights.AuthorityCandidate)
	}

	if s.spine.Contains(path) {
		add(TermAuthoritySpine, s.weights.PrimaryAuthoritySpine)
	}

	if included {
		add(TermCoreDocument, s.weights.CoreDocumentInCluster)
	}

	total := 0
	for _, w := range terms {
		total += w
	}
	return total, terms
}

// CandidatePool concatenates included and secondary documents. With
// dedupe set, only the first occurrence of each path is kept.
func CandidatePool(cluster model.Cluster, dedupe bool) []string {
	pool := make([]string, 0, len(cluster.IncludedDocuments)+len(cluster.SecondaryDocuments))
	seen := make(map[string]bool)

	for _, list := range [][]string{cluster.IncludedDocuments, cluster.SecondaryDocuments} {
		for _, path := range list {
			if dedupe {
				if seen[path] {
					continue
				}
				seen[path] = true
			}
			pool = append(pool, path)
		}
	}
	return pool
}

// SelectedCount is min(max, max(min, poolSize)), never more than poolSize
func SelectedCount(poolSize int, limits model.Limits) int {
	n := poolSize
	if limits.MinCoreSourcesPerCluster > n {
		n = limits.MinCoreSourcesPerCluster
	}
	if limits.MaxCoreSourcesPerCluster < n {
		n = limits.MaxCoreSourcesPerCluster
	}
	if n > poolSize {
		n = poolSize
	}
	if n < 0 {
		n = 0
	}
	return n
}
