package model

// Cluster is a named group of related documents describing one subsystem
type Cluster struct {
	Name               string        `json:"cluster_name"`
	IncludedDocuments  []string      `json:"included_documents"`
	SecondaryDocuments []string      `json:"secondary_documents"`
	ConflictSets       []ConflictSet `json:"conflict_sets"`
}

// ConflictSet names a topic on which several documents disagree
type ConflictSet struct {
	Topic     string   `json:"topic"`
	Documents []string `json:"documents"`
}

// IsIncluded reports whether path is listed among the cluster's core documents
func (c Cluster) IsIncluded(path string) bool {
	for _, p := range c.IncludedDocuments {
		if p == path {
			return true
		}
	}
	return false
}

// ScoredSource is a candidate document with its selection score
type ScoredSource struct {
	Path  string         `json:"path"`
	Score int            `json:"score"`
	Terms map[string]int `json:"terms,omitempty"` // Weighted terms that fired, by weight name
}
