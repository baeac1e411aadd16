package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/pointer"
)

func TestSeverityRegistry(t *testing.T) {
	tests := []struct {
		key   string
		rank  int
		label string
	}{
		{key: "critical", rank: 0, label: "Critical"},
		{key: "high", rank: 1, label: "High"},
		{key: "medium", rank: 2, label: "Medium"},
		{key: "low", rank: 3, label: "Low"},
		{key: "informational", rank: UnknownSeverityRank, label: "informational"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.rank, SeverityRank(tt.key))
			assert.Equal(t, tt.label, SeverityLabel(tt.key))
		})
	}

	assert.Equal(t, []string{"critical", "high", "medium", "low"}, Severities())
}

func TestFindingDefaults(t *testing.T) {
	f := Finding{Title: "x"}
	assert.Equal(t, LevelMedium, f.EffortOrDefault())
	assert.Equal(t, LevelMedium, f.BlastRadiusOrDefault())
	assert.False(t, f.HasFixNow())
	assert.False(t, f.HasValidation())

	f.Effort = LevelLow
	f.BlastRadius = LevelHigh
	f.Rollback = "revert the config"
	assert.Equal(t, LevelLow, f.EffortOrDefault())
	assert.Equal(t, LevelHigh, f.BlastRadiusOrDefault())
	assert.True(t, f.HasValidation())
}

func TestEvidenceFormat(t *testing.T) {
	ranged := NewLineEvidence("fixtures/linux/df_h.txt", "Filesystem above threshold", 3, 3)
	assert.Equal(t, "fixtures/linux/df_h.txt:L3-L3 (Filesystem above threshold)", ranged.Format())

	whole := NewEvidence("fixtures/edge/nginx.conf", "proxy_pass present")
	assert.Equal(t, "fixtures/edge/nginx.conf (proxy_pass present)", whole.Format())
}

func TestEvidenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		ref     EvidenceRef
		wantErr bool
	}{
		{name: "no range", ref: NewEvidence("a.txt", "n")},
		{name: "single line", ref: NewLineEvidence("a.txt", "n", 2, 2)},
		{name: "start only", ref: EvidenceRef{Path: "a.txt", LineStart: pointer.Int(1)}, wantErr: true},
		{name: "end only", ref: EvidenceRef{Path: "a.txt", LineEnd: pointer.Int(1)}, wantErr: true},
		{name: "inverted", ref: NewLineEvidence("a.txt", "n", 5, 2), wantErr: true},
		{name: "empty path", ref: EvidenceRef{Note: "n"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEvidenceID(t *testing.T) {
	a := NewLineEvidence("fixtures/linux/df_h.txt", "note", 1, 2)
	b := NewLineEvidence("fixtures/linux/df_h.txt", "note", 1, 2)
	c := NewLineEvidence("fixtures/linux/df_h.txt", "note", 1, 3)
	d := NewEvidence("fixtures/linux/df_h.txt", "note")

	require.Len(t, a.ID(), len("ev-")+10)
	assert.Regexp(t, `^ev-[0-9a-f]{10}$`, a.ID())
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.NotEqual(t, a.ID(), d.ID())
}

func TestSortOrder(t *testing.T) {
	items := []Finding{
		{Category: CategorySecurity, Severity: SeverityLow, Title: "HSTS is missing"},
		{Category: CategoryCost, Severity: SeverityMedium, Title: "overprovisioning"},
		{Category: CategorySecurity, Severity: SeverityHigh, Title: "b listener"},
		{Category: CategorySecurity, Severity: SeverityHigh, Title: "A listener"},
		{Category: CategoryReliability, Severity: "bogus", Title: "unknown"},
		{Category: CategoryReliability, Severity: SeverityCritical, Title: "outage"},
	}

	sorted := Sort(items)

	var titles []string
	for _, f := range sorted {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{
		"overprovisioning",
		"outage",
		"unknown",
		"A listener",
		"b listener",
		"HSTS is missing",
	}, titles)

	assert.Equal(t, "HSTS is missing", items[0].Title, "input must not be reordered")
}

func TestSortIsIndependentOfInputOrder(t *testing.T) {
	items := []Finding{
		{Category: CategoryReliability, Severity: SeverityLow, Title: "Check failed: a", Impact: "boom a", Source: "a"},
		{Category: CategoryReliability, Severity: SeverityLow, Title: "Check failed: a", Impact: "boom b", Source: "a"},
		{Category: CategoryPerformance, Severity: SeverityHigh, Title: "Seq scans"},
		{Category: CategoryPerformance, Severity: SeverityHigh, Title: "seq scans"},
		{Category: CategorySecurity, Severity: SeverityMedium, Title: "TLS", Evidence: []EvidenceRef{NewEvidence("x", "1")}},
		{Category: CategorySecurity, Severity: SeverityMedium, Title: "TLS", Evidence: []EvidenceRef{NewEvidence("x", "2")}},
	}

	reversed := make([]Finding, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}
	rotated := append(append([]Finding{}, items[3:]...), items[:3]...)

	want := Sort(items)
	assert.Equal(t, want, Sort(reversed))
	assert.Equal(t, want, Sort(rotated))
}

func TestSortByPriority(t *testing.T) {
	items := []Finding{
		{Category: CategorySecurity, Severity: SeverityMedium, Title: "tls"},
		{Category: CategoryReliability, Severity: SeverityHigh, Title: "disk"},
		{Category: CategoryPerformance, Severity: SeverityHigh, Title: "queries"},
	}

	sorted := SortByPriority(items)
	assert.Equal(t, "queries", sorted[0].Title)
	assert.Equal(t, "disk", sorted[1].Title)
	assert.Equal(t, "tls", sorted[2].Title)
}

func TestCountBySeverity(t *testing.T) {
	counts := CountBySeverity([]Finding{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityLow},
	})
	assert.Equal(t, map[string]int{"high": 2, "low": 1}, counts)
}
