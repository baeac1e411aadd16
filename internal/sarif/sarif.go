package sarif

import (
	"bufio"
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/scan-io-git/teardown/internal/findings"
)

const (
	toolName           = "teardown"
	toolInformationURI = "https://github.com/scan-io-git/teardown"
	defaultRuleID      = "teardown.finding"
)

// FromFindings converts findings into a SARIF 2.1.0 report with one run.
// Each check becomes a rule; each finding becomes a result located at its evidence,
// most severe first. A rule's default level is that of its most severe finding.
func FromFindings(items []findings.Finding, toolVersion string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	if toolVersion != "" {
		run.Tool.Driver.SemanticVersion = &toolVersion
	}

	known := sets.New[string]()
	for _, f := range findings.SortByPriority(items) {
		ruleID := f.Source
		if ruleID == "" {
			ruleID = defaultRuleID
		}
		level := toSarifErrorLevel(f.Severity)

		// AddRule hands back the existing rule for a known id
		rule := run.AddRule(ruleID)
		if !known.Has(ruleID) {
			known.Insert(ruleID)
			rule.WithName(ruleID).
				WithDescription(ruleDescription(ruleID)).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: level,
				})
		}

		var locations []*sarif.Location
		var evidenceIDs []string
		for _, ev := range f.Evidence {
			physical := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(ev.Path))
			if ev.HasRange() {
				physical = physical.WithRegion(sarif.NewRegion().WithStartLine(ev.Start()).WithEndLine(ev.End()))
			}
			locations = append(locations, sarif.NewLocation().
				WithPhysicalLocation(physical).
				WithMessage(sarif.NewTextMessage(ev.Note)))
			evidenceIDs = append(evidenceIDs, ev.ID())
		}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(resultMessage(f))).
			WithLevel(level)
		if len(locations) > 0 {
			result = result.WithLocations(locations)
		}
		result.Properties = map[string]interface{}{
			"Title":       f.Title,
			"Category":    string(f.Category),
			"Severity":    f.SeverityLabel(),
			"Confidence":  string(f.Confidence),
			"Effort":      string(f.EffortOrDefault()),
			"BlastRadius": string(f.BlastRadiusOrDefault()),
			"Level":       level,
			"EvidenceIDs": evidenceIDs,
		}
		if f.HasFixNow() {
			result.Properties["FixNow"] = f.FixNow.Title
		}
		run.AddResult(result)
	}

	report.AddRun(run)
	return report, nil
}

func ruleDescription(ruleID string) string {
	if ruleID == defaultRuleID {
		return "Findings without a reporting check"
	}
	return fmt.Sprintf("Findings reported by the %s check", ruleID)
}

func resultMessage(f findings.Finding) string {
	if f.Impact == "" {
		return f.Title
	}
	return f.Title + ": " + f.Impact
}

// toSarifErrorLevel maps a severity key to a SARIF result level.
func toSarifErrorLevel(severity string) string {
	switch severity {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// Write stores the report as indented JSON at path.
func Write(report *sarif.Report, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := report.PrettyWrite(w); err != nil {
		return fmt.Errorf("failed to write SARIF report: %w", err)
	}
	return w.Flush()
}

// CollectSeverityInfo counts results per SARIF level plus a total.
func CollectSeverityInfo(report *sarif.Report) map[string]int {
	info := map[string]int{"error": 0, "warning": 0, "note": 0, "total": 0}
	for _, run := range report.Runs {
		for _, result := range run.Results {
			if result.Level != nil {
				info[*result.Level]++
			}
			info["total"]++
		}
	}
	return info
}
