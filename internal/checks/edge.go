package checks

import (
	"strings"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	nginxArtifact   = "edge/nginx.conf"
	tlsScanArtifact = "edge/tls_scan.txt"
)

// ProxyTimeoutsCheck reports nginx configs that proxy upstream without an explicit read timeout.
type ProxyTimeoutsCheck struct{}

func (c *ProxyTimeoutsCheck) Name() string { return "edge.nginx.proxy_timeouts" }

func (c *ProxyTimeoutsCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(nginxArtifact)
}

func (c *ProxyTimeoutsCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	txt, ok, err := fx.ReadText(nginxArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if !strings.Contains(txt, "proxy_pass") || strings.Contains(txt, "proxy_read_timeout") {
		return nil, nil
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: findings.SeverityMedium,
		Title:    "Nginx proxy_read_timeout not set (may cause upstream timeouts under load)",
		Impact: "Default proxy timeouts can be too short for slow upstreams or cold starts, causing 504s and client retries. " +
			"This inflates load and worsens tail latency.",
		Confidence: findings.LevelHigh,
		Evidence: []findings.EvidenceRef{
			findings.NewEvidence(evidencePath(nginxArtifact), "proxy_pass present but proxy_read_timeout not found"),
		},
		FixNow: &findings.RemediationAction{
			Title: "Set baseline proxy timeouts for upstream behavior",
			Commands: []string{
				"# Example baseline (tune per service):",
				"proxy_connect_timeout 5s;",
				"proxy_send_timeout 60s;",
				"proxy_read_timeout 60s;",
			},
		},
		Effort:         findings.LevelLow,
		BlastRadius:    findings.LevelMedium,
		ValidateSafely: "Run nginx -t before reloading and roll the change to one edge node first.",
		Rollback:       "Remove the timeout directives and reload nginx.",
		Plan7d: []string{
			"Set reasonable defaults for proxy_*_timeout and document per-service overrides.",
			"Correlate 5xx spikes with upstream latency; tune timeouts to reality.",
			"Add request timeouts in the app to avoid hung requests.",
		},
		Plan30d: []string{
			"Add structured edge logging (upstream_response_time, status) and dashboards.",
			"Introduce circuit breakers/backoff for slow downstream dependencies.",
			"Standardize Nginx templates and test configs in CI.",
		},
		Questions: []string{
			"What are the upstream p95/p99 response times during peak?",
			"Do you run long-lived requests (exports, reports) that need higher timeouts?",
			"Any CDN in front that imposes its own timeouts?",
		},
	}}, nil
}

// TLSPolicyCheck reads a TLS scan summary and reports legacy protocol versions and a missing HSTS header.
type TLSPolicyCheck struct{}

func (c *TLSPolicyCheck) Name() string { return "edge.tls_policy" }

func (c *TLSPolicyCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(tlsScanArtifact)
}

func (c *TLSPolicyCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	txt, ok, err := fx.ReadText(tlsScanArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	lower := strings.ToLower(txt)
	var out []findings.Finding

	if strings.Contains(lower, "tlsv1.0: enabled") || strings.Contains(lower, "tlsv1.1: enabled") {
		out = append(out, findings.Finding{
			Category: findings.CategorySecurity,
			Severity: findings.SeverityMedium,
			Title:    "Legacy TLS versions appear enabled (TLS 1.0/1.1)",
			Impact: "Older TLS versions weaken security posture and may violate compliance expectations. " +
				"Most modern clients support TLS 1.2+.",
			Confidence: findings.LevelMedium,
			Evidence: []findings.EvidenceRef{
				findings.NewEvidence(evidencePath(tlsScanArtifact), "TLSv1.0/TLSv1.1 enabled in scan summary"),
			},
			FixNow: &findings.RemediationAction{
				Title: "Disable TLS 1.0/1.1 and standardize a modern policy",
				Commands: []string{
					"# Target: TLS 1.2 and 1.3 only (exact config depends on your edge stack).",
					"ssl_protocols TLSv1.2 TLSv1.3;",
					"# Use a modern cipher suite policy appropriate to your environment.",
				},
			},
			Effort:      findings.LevelLow,
			BlastRadius: findings.LevelMedium,
			Plan7d: []string{
				"Confirm client compatibility requirements (legacy devices/browsers).",
				"Disable TLS 1.0/1.1 and redeploy edge config.",
				"Run a follow-up scan to confirm posture.",
			},
			Plan30d: []string{
				"Automate TLS posture scans (scheduled) and alert on regressions.",
				"Adopt managed TLS policies via CDN/WAF where feasible.",
				"Track certificate renewal and config drift.",
			},
			Questions: []string{
				"Do you terminate TLS at a CDN/WAF or on the origin?",
				"Any compliance requirements (PCI/HIPAA/SOC2) driving a specific policy?",
				"Any legacy clients that truly require TLS 1.0/1.1?",
			},
		})
	}

	if strings.Contains(lower, "hsts: missing") {
		out = append(out, findings.Finding{
			Category: findings.CategorySecurity,
			Severity: findings.SeverityLow,
			Title:    "HSTS is missing",
			Impact: "Without HSTS, clients can be tricked into initial HTTP connections in some downgrade scenarios. " +
				"HSTS is usually a low-risk hardening win for public HTTPS sites.",
			Confidence: findings.LevelMedium,
			Evidence: []findings.EvidenceRef{
				findings.NewEvidence(evidencePath(tlsScanArtifact), "HSTS marked missing in scan summary"),
			},
			FixNow: &findings.RemediationAction{
				Title: "Add an HSTS header after validating HTTPS-only readiness",
				Commands: []string{
					`add_header Strict-Transport-Security "max-age=31536000; includeSubDomains" always;`,
					"# Consider preload only after careful validation.",
				},
			},
			Effort:         findings.LevelLow,
			BlastRadius:    findings.LevelLow,
			ValidateSafely: "Start with a short max-age (for example 300) and raise it once nothing breaks.",
			Plan7d: []string{
				"Confirm all subdomains are HTTPS and redirects are correct.",
				"Deploy HSTS and validate no mixed-content regressions.",
			},
			Plan30d: []string{
				"Add a baseline set of security headers (CSP, X-Content-Type-Options, etc.).",
				"Automate header checks in CI.",
			},
			Questions: []string{
				"Are there any HTTP-only subdomains/endpoints still in use?",
				"Do you already use a CDN/WAF that can set headers globally?",
			},
		})
	}

	return out, nil
}
