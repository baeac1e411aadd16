package report

import (
	"github.com/scan-io-git/teardown/internal/findings"
)

// Document is the assembled report, ready to be serialized by a renderer.
// It holds no formatting decisions beyond ordering, anchors and truncated summaries.
type Document struct {
	Title          string
	GeneratedAt    string
	CTA            CTA
	Revision       string
	Summary        Summary
	InputsReviewed []string
	TopWins        []TopWin
	Triage         []TriageRow
	Sections       []Section

	// Appendix is empty unless a fixtures root was given.
	Appendix []EvidenceBlock
}

// CTA is the call to action shown in the report front door.
type CTA struct {
	Label       string
	URL         string
	ContactLine string
	ContactURL  string
}

// Summary holds the finding totals.
type Summary struct {
	Total  int
	Counts []SeverityCount // non-zero counts, highest severity first
}

// SeverityCount is the number of findings of one severity.
type SeverityCount struct {
	Severity string
	Label    string
	Count    int
}

// TopWin is a short fix-now recommendation.
type TopWin struct {
	Label       string
	Title       string
	Effort      findings.Level
	BlastRadius findings.Level
	FixTitle    string
	Anchor      string
}

// TriageRow is one line of the skim table.
type TriageRow struct {
	Label    string
	Category findings.Category
	Title    string
	Anchor   string
	Why      string
	FixNow   string // empty when the finding has no fix-now action
	Effort   findings.Level
	Risk     findings.Level
}

// Section groups the findings of one category.
type Section struct {
	Category findings.Category
	Entries  []Entry
}

// Entry is a finding placed in the document.
type Entry struct {
	Anchor   string
	Label    string
	Finding  findings.Finding
	Evidence []EvidenceLink
}

// EvidenceLink is an evidence label, linked to its appendix block when ID is set.
type EvidenceLink struct {
	Label string
	ID    string
}

// EvidenceBlock is a deduplicated appendix entry.
type EvidenceBlock struct {
	ID      string
	Ref     findings.EvidenceRef
	Label   string
	Snippet Snippet
}

// Snippet is the excerpt of an evidence artifact.
type Snippet struct {
	Text      string
	Available bool
}
