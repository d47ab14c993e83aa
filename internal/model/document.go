package model

// Document represents one source document known to the inventory
type Document struct {
	Path               string          `json:"path"`                // Repo-relative path, unique key
	DocumentStatus     DocumentStatus  `json:"document_status"`     // Lifecycle status from the inventory
	NormativeIntent    NormativeIntent `json:"normative_intent"`    // Strongest intent detected upstream
	AuthorityCandidate bool            `json:"authority_candidate"` // Flagged as a possible authority
}

// DocumentStatus is the inventory lifecycle status of a document
type DocumentStatus string

const (
	StatusNormativeCandidate DocumentStatus = "NORMATIVE_CANDIDATE"
	StatusHistorical         DocumentStatus = "HISTORICAL"
	StatusActive             DocumentStatus = "ACTIVE"
)

// NormativeIntent describes how strongly a document or claim prescribes behavior
type NormativeIntent string

const (
	IntentExplicit NormativeIntent = "explicit" // MUST / SHALL / REQUIRED
	IntentImplicit NormativeIntent = "implicit" // should / recommend / ensure / verify / validate
	IntentNone     NormativeIntent = "none"
)

// DocumentIndex is a path-keyed lookup over the document inventory.
// Paths missing from the index resolve to the zero Document.
type DocumentIndex struct {
	docs  []Document
	byKey map[string]Document
}

// NewDocumentIndex builds an index. Later duplicates of a path overwrite earlier ones.
func NewDocumentIndex(docs []Document) *DocumentIndex {
	idx := &DocumentIndex{
		docs:  docs,
		byKey: make(map[string]Document, len(docs)),
	}
	for _, d := range docs {
		idx.byKey[d.Path] = d
	}
	return idx
}

// Lookup returns the document for path and whether it is indexed
func (i *DocumentIndex) Lookup(path string) (Document, bool) {
	if i == nil {
		return Document{}, false
	}
	d, ok := i.byKey[path]
	return d, ok
}

// Documents returns the documents in inventory order
func (i *DocumentIndex) Documents() []Document {
	if i == nil {
		return nil
	}
	return i.docs
}

// Len returns the number of inventory entries
func (i *DocumentIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.docs)
}
