package findings

// Category is the area a finding belongs to.
type Category string

const (
	CategorySecurity    Category = "Security"
	CategoryReliability Category = "Reliability"
	CategoryPerformance Category = "Performance"
	CategoryCost        Category = "Cost"
)

// DisplayCategories is the order category sections appear in a report.
var DisplayCategories = []Category{CategorySecurity, CategoryReliability, CategoryPerformance, CategoryCost}

// Level grades confidence, effort and blast radius.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// DefaultLevel is used for effort and blast radius when a check leaves them unset.
const DefaultLevel = LevelMedium

// RemediationAction is the immediate, low-risk step attached to a finding.
type RemediationAction struct {
	Title    string   `json:"title"`
	Commands []string `json:"commands,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
}

// Finding is a single diagnostic produced by a check.
// Findings are treated as values: nothing changes them once the runner has returned them.
type Finding struct {
	Category   Category           `json:"category"`
	Severity   string             `json:"severity"`
	Title      string             `json:"title"`
	Impact     string             `json:"impact"`
	Confidence Level              `json:"confidence"`
	Evidence   []EvidenceRef      `json:"evidence,omitempty"`
	FixNow     *RemediationAction `json:"fix_now,omitempty"`
	Plan7d     []string           `json:"plan_7d,omitempty"`
	Plan30d    []string           `json:"plan_30d,omitempty"`
	Questions  []string           `json:"questions,omitempty"`

	Effort         Level  `json:"effort,omitempty"`
	BlastRadius    Level  `json:"blast_radius,omitempty"`
	ValidateSafely string `json:"validate_safely,omitempty"`
	SuccessMetric  string `json:"success_metric,omitempty"`
	Rollback       string `json:"rollback,omitempty"`

	// Source is the name of the check that produced the finding.
	Source string `json:"source,omitempty"`
}

// EffortOrDefault returns the effort estimate, DefaultLevel when unset.
func (f Finding) EffortOrDefault() Level {
	if f.Effort == "" {
		return DefaultLevel
	}
	return f.Effort
}

// BlastRadiusOrDefault returns the blast radius, DefaultLevel when unset.
func (f Finding) BlastRadiusOrDefault() Level {
	if f.BlastRadius == "" {
		return DefaultLevel
	}
	return f.BlastRadius
}

// HasFixNow reports whether the finding carries a remediation action.
func (f Finding) HasFixNow() bool {
	return f.FixNow != nil
}

// HasValidation reports whether any of the validation, success or rollback notes are set.
func (f Finding) HasValidation() bool {
	return f.ValidateSafely != "" || f.SuccessMetric != "" || f.Rollback != ""
}

// SeverityRank returns the registry rank of the finding severity.
func (f Finding) SeverityRank() int {
	return SeverityRank(f.Severity)
}

// SeverityLabel returns the display label of the finding severity.
func (f Finding) SeverityLabel() string {
	return SeverityLabel(f.Severity)
}
