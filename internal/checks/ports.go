package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	portsArtifact = "linux/ss_lntp.txt"
	wildcardBind  = "0.0.0.0"
)

var listenRe = regexp.MustCompile(`LISTEN\s+\d+\s+\d+\s+([0-9.]+):(\d+)`)

// dataStorePorts are ports of databases and caches that should never face the internet.
var dataStorePorts = sets.New[int](5432, 6379, 9200, 27017)

// PortsCheck reports listeners bound to all interfaces on ports outside the allow-list.
type PortsCheck struct {
	allowed sets.Set[int]
}

// NewPortsCheck returns a PortsCheck that accepts public listeners on allowed ports.
func NewPortsCheck(allowed []int) *PortsCheck {
	return &PortsCheck{allowed: sets.New[int](allowed...)}
}

func (c *PortsCheck) Name() string { return "linux.ports" }

func (c *PortsCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(portsArtifact)
}

func (c *PortsCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	txt, ok, err := fx.ReadText(portsArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var out []findings.Finding
	for _, line := range dataLines(txt) {
		m := listenRe.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		addr := strings.TrimSpace(m[1])
		port, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if addr != wildcardBind || c.allowed.Has(port) {
			continue
		}
		out = append(out, c.finding(port, line.number))
	}
	return out, nil
}

func (c *PortsCheck) finding(port, lineNo int) findings.Finding {
	severity := findings.SeverityMedium
	if dataStorePorts.Has(port) {
		severity = findings.SeverityHigh
	}

	return findings.Finding{
		Category: findings.CategorySecurity,
		Severity: severity,
		Title:    fmt.Sprintf("Unexpected public listener detected on port %d", port),
		Impact: "Public listeners expand the attack surface. Databases and caches should not be exposed to the internet " +
			"without strong justification, network controls, and monitoring.",
		Confidence: findings.LevelHigh,
		Evidence: []findings.EvidenceRef{
			findings.NewLineEvidence(evidencePath(portsArtifact), fmt.Sprintf("Bound to %s:%d", wildcardBind, port), lineNo, lineNo),
		},
		FixNow: &findings.RemediationAction{
			Title: "Restrict bind address and enforce network controls",
			Commands: []string{
				"# If this is Postgres, prefer listen_addresses='localhost' (or private subnet only)",
				fmt.Sprintf("# Verify cloud SG/firewall: deny inbound %d from 0.0.0.0/0", port),
				"sudo ufw status || true",
				"sudo ss -lntp | head -50",
			},
		},
		Effort:         findings.LevelLow,
		BlastRadius:    findings.LevelMedium,
		ValidateSafely: "Confirm which clients connect to the port (ss -tnp, flow logs) before tightening the bind.",
		Rollback:       "Restore the previous bind address or firewall rule.",
		Plan7d: []string{
			"Confirm which services should be public and document an explicit allowlist.",
			"Restrict binds to localhost/private interfaces and enforce SG/firewall rules.",
			"Add monitoring/alerting for new public listeners.",
		},
		Plan30d: []string{
			"Standardize hardening baselines (CIS-ish) for hosts and containers.",
			"Add continuous drift detection (ports, firewall, SGs) as a scheduled check.",
			"Adopt least-privilege network segmentation between app and data tiers.",
		},
		Questions: []string{
			fmt.Sprintf("Is port %d intentionally public (e.g., temporary debug, migration)?", port),
			"What enforces network policy today (security groups, nftables, kubernetes, etc.)?",
			"Do you have a documented threat model / compliance constraints?",
		},
	}
}
