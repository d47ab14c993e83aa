// Package artifact loads the upstream inventory and clustering artifacts.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/specsynth/internal/model"
)

// Required artifact filenames, in the order they are checked
const (
	DocumentIndexFile       = "document_index.json"
	ClusterMapFile          = "cluster_map.json"
	AuthorityCandidatesFile = "authority_candidates.json"
)

// RequiredFiles lists every artifact a run needs
var RequiredFiles = []string{DocumentIndexFile, ClusterMapFile, AuthorityCandidatesFile}

// MissingInputError lists every required artifact that does not exist
type MissingInputError struct {
	Missing []string
}

func (e *MissingInputError) Error() string {
	return "missing required input files:\n  - " + strings.Join(e.Missing, "\n  - ")
}

// DecodeError reports an artifact that exists but cannot be parsed
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DuplicateClusterError reports a cluster name used more than once
type DuplicateClusterError struct {
	Name string
}

func (e *DuplicateClusterError) Error() string {
	return fmt.Sprintf("duplicate cluster_name %q in %s", e.Name, ClusterMapFile)
}

// Artifacts are the decoded upstream inputs of a run
type Artifacts struct {
	Clusters  []model.Cluster
	Documents *model.DocumentIndex
	// Authority is carried for upstream use; scoring does not read it.
	Authority []json.RawMessage
}

// CheckInputs returns a MissingInputError naming all absent artifacts in dir
func CheckInputs(dir string) error {
	var missing []string
	for _, name := range RequiredFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return &MissingInputError{Missing: missing}
	}
	return nil
}

// Load checks and decodes the three artifacts in dir. Nothing is decoded
// unless all of them exist.
func Load(dir string) (*Artifacts, error) {
	if err := CheckInputs(dir); err != nil {
		return nil, err
	}

	var clusters []model.Cluster
	if err := decodeFile(filepath.Join(dir, ClusterMapFile), &clusters); err != nil {
		return nil, err
	}
	if err := validateClusters(clusters); err != nil {
		return nil, err
	}

	var docs []model.Document
	if err := decodeFile(filepath.Join(dir, DocumentIndexFile), &docs); err != nil {
		return nil, err
	}

	var authority []json.RawMessage
	if err := decodeFile(filepath.Join(dir, AuthorityCandidatesFile), &authority); err != nil {
		return nil, err
	}

	return &Artifacts{
		Clusters:  clusters,
		Documents: model.NewDocumentIndex(docs),
		Authority: authority,
	}, nil
}

func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

func validateClusters(clusters []model.Cluster) error {
	seen := make(map[string]bool, len(clusters))
	for _, c := range clusters {
		if seen[c.Name] {
			return &DuplicateClusterError{Name: c.Name}
		}
		seen[c.Name] = true
	}
	return nil
}
