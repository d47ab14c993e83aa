package model

// RunConfig is the configuration of one synthesis run (RUN_CONFIG.json)
type RunConfig struct {
	Version               string            `json:"version,omitempty" yaml:"version,omitempty"`
	Configuration         Limits            `json:"configuration" yaml:"configuration"`
	ScoringWeights        ScoringWeights    `json:"scoring_weights" yaml:"scoring_weights"`
	PrimaryAuthoritySpine []string          `json:"primary_authority_spine" yaml:"primary_authority_spine"`
	Exclusions            Exclusions        `json:"exclusions" yaml:"exclusions"`
	ClusterFilenames      map[string]string `json:"cluster_filenames" yaml:"cluster_filenames"`
	InputArtifacts        InputArtifacts    `json:"input_artifacts,omitempty" yaml:"input_artifacts,omitempty"`
}

// Limits bounds selection, extraction and rendering per cluster
type Limits struct {
	MaxCoreSourcesPerCluster          int  `json:"max_core_sources_per_cluster" yaml:"max_core_sources_per_cluster"`
	MinCoreSourcesPerCluster          int  `json:"min_core_sources_per_cluster" yaml:"min_core_sources_per_cluster"`
	MaxClaimsInTraceabilityPerCluster int  `json:"max_claims_in_traceability_per_cluster" yaml:"max_claims_in_traceability_per_cluster"`
	MaxMustInvariantsPerSpec          int  `json:"max_must_invariants_per_spec" yaml:"max_must_invariants_per_spec"`
	MaxImplicitClaimsPerSpec          int  `json:"max_implicit_claims_per_spec" yaml:"max_implicit_claims_per_spec"`
	DedupeCandidatePool               bool `json:"dedupe_candidate_pool" yaml:"dedupe_candidate_pool"`
}

// ScoringWeights are the additive terms of the core-source score
type ScoringWeights struct {
	NormativeCandidateStatus int `json:"NORMATIVE_CANDIDATE_status" yaml:"NORMATIVE_CANDIDATE_status"`
	ExplicitNormativeIntent  int `json:"explicit_normative_intent" yaml:"explicit_normative_intent"`
	ImplicitNormativeIntent  int `json:"implicit_normative_intent" yaml:"implicit_normative_intent"`
	AuthorityCandidate       int `json:"authority_candidate" yaml:"authority_candidate"`
	PrimaryAuthoritySpine    int `json:"primary_authority_spine" yaml:"primary_authority_spine"`
	CoreDocumentInCluster    int `json:"core_document_in_cluster" yaml:"core_document_in_cluster"`
}

// Exclusions lists documents kept out of the CURRENT specification
type Exclusions struct {
	UltimateDocuments []string `json:"ULTIMATE_documents" yaml:"ULTIMATE_documents"`
}

// InputArtifacts optionally locates the upstream artifacts
type InputArtifacts struct {
	DocumentIndex string `json:"document_index,omitempty" yaml:"document_index,omitempty"`
}

// DefaultRunConfig returns the built-in fallback configuration.
// Runs using it are not reproducible across environments; pass a RUN_CONFIG.json.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Configuration: Limits{
			MaxCoreSourcesPerCluster:          15,
			MinCoreSourcesPerCluster:          5,
			MaxClaimsInTraceabilityPerCluster: 20,
			MaxMustInvariantsPerSpec:          15,
			MaxImplicitClaimsPerSpec:          5,
			DedupeCandidatePool:               true,
		},
		ScoringWeights: ScoringWeights{
			NormativeCandidateStatus: 10,
			ExplicitNormativeIntent:  5,
			ImplicitNormativeIntent:  2,
			AuthorityCandidate:       3,
			PrimaryAuthoritySpine:    15,
			CoreDocumentInCluster:    2,
		},
		PrimaryAuthoritySpine: []string{},
		Exclusions:            Exclusions{UltimateDocuments: []string{}},
		ClusterFilenames:      map[string]string{},
	}
}

// ConfigMode records where the run configuration came from
type ConfigMode string

const (
	ConfigModeReproducible ConfigMode = "reproducible" // Loaded from a config file
	ConfigModeFallback     ConfigMode = "fallback"     // Built-in defaults only
)
