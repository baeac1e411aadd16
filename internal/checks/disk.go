package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	diskArtifact    = "linux/df_h.txt"
	diskWarnPercent = 80
	diskHighPercent = 90
)

var diskUsageRe = regexp.MustCompile(`\s(\d+)%\s`)

// DiskCheck flags filesystems above the usage threshold in `df -h` output.
type DiskCheck struct{}

func (c *DiskCheck) Name() string { return "linux.disk" }

func (c *DiskCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(diskArtifact)
}

func (c *DiskCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	txt, ok, err := fx.ReadText(diskArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var (
		hottest numberedLine
		maxPct  = -1
	)
	for _, line := range dataLines(txt) {
		m := diskUsageRe.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		pct, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if pct >= diskWarnPercent && pct > maxPct {
			hottest, maxPct = line, pct
		}
	}
	if maxPct < 0 {
		return nil, nil
	}

	severity := findings.SeverityMedium
	if maxPct >= diskHighPercent {
		severity = findings.SeverityHigh
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: severity,
		Title:    fmt.Sprintf("Disk usage is high (%d%%) on at least one filesystem", maxPct),
		Impact: "High disk usage is a common outage trigger (writes fail, services crash, databases stall). " +
			"It also hides other problems (logs grow until the host falls over).",
		Confidence: findings.LevelHigh,
		Evidence: []findings.EvidenceRef{
			findings.NewLineEvidence(
				evidencePath(diskArtifact),
				"Filesystem above threshold: "+strings.TrimSpace(hottest.text),
				hottest.number, hottest.number,
			),
		},
		FixNow: &findings.RemediationAction{
			Title: "Identify top disk consumers and cap runaway logs safely",
			Commands: []string{
				"sudo du -xh /var/log | sort -h | tail -50",
				"sudo journalctl --disk-usage",
				"sudo sed -i 's/^#SystemMaxUse=.*/SystemMaxUse=1G/' /etc/systemd/journald.conf || true",
				"sudo systemctl restart systemd-journald || true",
			},
		},
		Effort:         findings.LevelLow,
		BlastRadius:    findings.LevelLow,
		ValidateSafely: "Run the du/journalctl commands read-only first and confirm which paths grow.",
		SuccessMetric:  fmt.Sprintf("Filesystem usage stays below %d%% through the next deploy cycle.", diskWarnPercent),
		Rollback:       "Restore the previous journald.conf and restart systemd-journald.",
		Plan7d: []string{
			"Confirm alerting on disk % and inode usage (thresholds + paging policy).",
			"Implement log rotation policy for app logs and set journald caps.",
			"Add a runbook: safe cleanup + where growth typically comes from.",
		},
		Plan30d: []string{
			"Add SLO-driven alerting and capacity planning (trend disk growth).",
			"Standardize log retention per environment (dev/stage/prod).",
			"Automate checks in CI or daily cron to catch regressions.",
		},
		Questions: []string{
			"Is this host stateful (DB) or stateless (app)? Cleanup approach differs.",
			"Any known log bursts (deploys, retries, noisy errors) causing growth?",
			"What is your on-call policy for disk alerts (page vs ticket)?",
		},
	}}, nil
}
