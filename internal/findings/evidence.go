package findings

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"

	"k8s.io/utils/pointer"
)

// EvidenceRef points at the artifact region that supports a finding.
// LineStart and LineEnd are 1-based and inclusive; both are set or both are nil.
type EvidenceRef struct {
	Path      string `json:"path"`
	Note      string `json:"note"`
	LineStart *int   `json:"line_start,omitempty"`
	LineEnd   *int   `json:"line_end,omitempty"`
}

// NewEvidence returns a reference to a whole artifact.
func NewEvidence(path, note string) EvidenceRef {
	return EvidenceRef{Path: path, Note: note}
}

// NewLineEvidence returns a reference to lines start..end of an artifact.
func NewLineEvidence(path, note string, start, end int) EvidenceRef {
	return EvidenceRef{
		Path:      path,
		Note:      note,
		LineStart: pointer.Int(start),
		LineEnd:   pointer.Int(end),
	}
}

// HasRange reports whether both line bounds are present.
func (e EvidenceRef) HasRange() bool {
	return e.LineStart != nil && e.LineEnd != nil
}

// Start returns the first line, 0 when the reference has no range.
func (e EvidenceRef) Start() int {
	return pointer.IntDeref(e.LineStart, 0)
}

// End returns the last line, 0 when the reference has no range.
func (e EvidenceRef) End() int {
	return pointer.IntDeref(e.LineEnd, 0)
}

// Validate checks the line bound invariants.
func (e EvidenceRef) Validate() error {
	if e.Path == "" {
		return fmt.Errorf("evidence path is empty")
	}
	if (e.LineStart == nil) != (e.LineEnd == nil) {
		return fmt.Errorf("evidence %q: line_start and line_end must be set together", e.Path)
	}
	if e.HasRange() && *e.LineStart > *e.LineEnd {
		return fmt.Errorf("evidence %q: line_start %d is after line_end %d", e.Path, *e.LineStart, *e.LineEnd)
	}
	return nil
}

// Format renders the human-readable label used in reports.
func (e EvidenceRef) Format() string {
	if e.HasRange() {
		return fmt.Sprintf("%s:L%d-L%d (%s)", e.Path, *e.LineStart, *e.LineEnd, e.Note)
	}
	return fmt.Sprintf("%s (%s)", e.Path, e.Note)
}

// ID returns the stable identifier of the reference: "ev-" followed by ten hex characters.
// Two references with the same path, bounds and note share an ID.
func (e EvidenceRef) ID() string {
	key := e.Path + "|" + formatBound(e.LineStart) + "|" + formatBound(e.LineEnd) + "|" + e.Note
	sum := sha1.Sum([]byte(key))
	return "ev-" + hex.EncodeToString(sum[:])[:10]
}

func formatBound(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
