package findings

// UnknownSeverityRank sorts severities missing from the registry after every known one.
const UnknownSeverityRank = 99

// Severity keys used by checks.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Severity is an entry of the severity registry.
type Severity struct {
	Key   string
	Rank  int
	Label string
}

// severities is ordered by rank. It is never modified after package init.
var severities = []Severity{
	{Key: SeverityCritical, Rank: 0, Label: "Critical"},
	{Key: SeverityHigh, Rank: 1, Label: "High"},
	{Key: SeverityMedium, Rank: 2, Label: "Medium"},
	{Key: SeverityLow, Rank: 3, Label: "Low"},
}

var severityByKey = func() map[string]Severity {
	m := make(map[string]Severity, len(severities))
	for _, s := range severities {
		m[s.Key] = s
	}
	return m
}()

// LookupSeverity returns the registry entry for key.
func LookupSeverity(key string) (Severity, bool) {
	s, ok := severityByKey[key]
	return s, ok
}

// SeverityRank returns the sort rank for key, UnknownSeverityRank for keys outside the registry.
func SeverityRank(key string) int {
	if s, ok := severityByKey[key]; ok {
		return s.Rank
	}
	return UnknownSeverityRank
}

// SeverityLabel returns the display label for key, or the raw key when it is not registered.
func SeverityLabel(key string) string {
	if s, ok := severityByKey[key]; ok {
		return s.Label
	}
	return key
}

// Severities returns the registered keys, highest severity first.
func Severities() []string {
	keys := make([]string, 0, len(severities))
	for _, s := range severities {
		keys = append(keys, s.Key)
	}
	return keys
}
