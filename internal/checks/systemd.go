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
	systemdArtifact         = "linux/systemctl_status.txt"
	systemdHighRestartCount = 10
)

var restartCounterRe = regexp.MustCompile(`(?i)restart counter is at (\d+)`)

// SystemdFlapCheck detects services stuck in a restart loop from `systemctl status` output.
type SystemdFlapCheck struct{}

func (c *SystemdFlapCheck) Name() string { return "linux.systemd.flap" }

func (c *SystemdFlapCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(systemdArtifact)
}

func (c *SystemdFlapCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	txt, ok, err := fx.ReadText(systemdArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	lines := splitLines(txt)
	counter, counterLine := -1, 0
	autoRestart := false
	for i, line := range lines {
		if counter < 0 {
			if m := restartCounterRe.FindStringSubmatch(line); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					counter, counterLine = n, i+1
				}
			}
		}
		if strings.Contains(strings.ToLower(line), "auto-restart") {
			autoRestart = true
		}
	}
	if counter < 0 && !autoRestart {
		return nil, nil
	}

	severity := findings.SeverityMedium
	if counter >= systemdHighRestartCount {
		severity = findings.SeverityHigh
	}

	evidence := findings.NewEvidence(evidencePath(systemdArtifact), "Detected auto-restart state in service status output")
	if counter >= 0 {
		evidence = findings.NewLineEvidence(
			evidencePath(systemdArtifact),
			fmt.Sprintf("Restart counter is %d", counter),
			counterLine, counterLine,
		)
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: severity,
		Title:    "systemd service appears to be flapping (restart loop)",
		Impact: "Restart loops create intermittent downtime, amplify load (retry storms), and usually mask a real dependency " +
			"issue (DB, DNS, config, or secrets). They also consume CPU and can trigger cascading failures.",
		Confidence: findings.LevelHigh,
		Evidence:   []findings.EvidenceRef{evidence},
		FixNow: &findings.RemediationAction{
			Title: "Pull recent logs and verify dependencies; add backoff while fixing root cause",
			Commands: []string{
				"sudo journalctl -u api.service --since '2 hours ago' | tail -200",
				"sudo systemctl show api.service -p Restart -p RestartUSec -p StartLimitBurst -p StartLimitIntervalUSec",
				"sudo systemctl status api.service",
			},
			Snippet: "[Service]\nRestart=on-failure\nRestartSec=5s\nStartLimitIntervalSec=300\nStartLimitBurst=5",
		},
		Effort:      findings.LevelMedium,
		BlastRadius: findings.LevelLow,
		Plan7d: []string{
			"Identify the failing dependency (DB connectivity, DNS, secrets, config) and fix root cause.",
			"Add health checks and a reasonable restart policy (backoff + limits) to avoid retry storms.",
			"Add alerting on restart rate and error budget burn.",
		},
		Plan30d: []string{
			"Add graceful degradation (circuit breaker/backoff) in the app for dependency failures.",
			"Add dependency SLOs (DB latency, DNS) and correlate with deploy events.",
			"Standardize systemd unit templates and logging across services.",
		},
		Questions: []string{
			"Is this happening constantly or only during deploy windows?",
			"What database/network path does the service use (VPC, SG, local socket)?",
			"Do you have an incident timeline for when this started?",
		},
	}}, nil
}
