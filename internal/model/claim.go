package model

// DefaultHeading labels claims found before the first Markdown heading
const DefaultHeading = "Introduction"

// Claim is a single normative statement extracted from a source line
type Claim struct {
	Statement       string          `json:"statement"`        // Full trimmed source line
	SourcePath      string          `json:"source_path"`      // Document the line came from
	SourceHeading   string          `json:"source_heading"`   // Nearest preceding heading text
	ShortQuote      string          `json:"short_quote"`      // First 25 words, at most 100 characters
	NormativeIntent NormativeIntent `json:"normative_intent"` // explicit or implicit
}

// IsExplicit reports whether the claim matched an obligation keyword
func (c Claim) IsExplicit() bool {
	return c.NormativeIntent == IntentExplicit
}

// CanonicalSpec is the generated specification for one cluster
type CanonicalSpec struct {
	ClusterName  string
	Filename     string
	CoreSources  []string // Every selected source; the document shows the first 10
	Invariants   []Claim  // Explicit claims as rendered
	Acceptance   []Claim  // Implicit claims as rendered
	Traceability []Claim  // Claims retained for the traceability annex and matrix
	Body         string   // Rendered Markdown
}

// TraceStatus marks whether a claim could be traced to an indexed document
type TraceStatus string

const (
	TraceStatusTraceable   TraceStatus = "traceable"
	TraceStatusUntraceable TraceStatus = "untraceable"
)

// TraceabilityRow is one row of TRACEABILITY_MATRIX.csv
type TraceabilityRow struct {
	CanonicalSpec string      `json:"canonical_spec"`
	ClaimID       string      `json:"claim_id"`
	Statement     string      `json:"statement"`
	SourcePath    string      `json:"source_path"`
	SourceHeading string      `json:"source_heading"`
	ShortQuote    string      `json:"short_quote"`
	Status        TraceStatus `json:"status"`
}

// TraceabilityColumns is the exact header of the traceability matrix
var TraceabilityColumns = []string{
	"canonical_spec", "claim_id", "statement", "source_path",
	"source_heading", "short_quote", "status",
}

// Record returns the row as CSV fields in TraceabilityColumns order
func (r TraceabilityRow) Record() []string {
	return []string{
		r.CanonicalSpec, r.ClaimID, r.Statement, r.SourcePath,
		r.SourceHeading, r.ShortQuote, string(r.Status),
	}
}
