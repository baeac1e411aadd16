package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/report"
)

func defaultOptions() report.Options {
	return report.Options{
		Title:       "Teardown Report (Sample)",
		GeneratedAt: "2024-01-10T10:00:00+00:00",
		CTA: report.CTA{
			Label:       "Book 15 minutes",
			URL:         "#",
			ContactLine: "Replace this with your email / Calendly link",
			ContactURL:  "#",
		},
	}
}

func sampleFindings() []findings.Finding {
	return []findings.Finding{
		{
			Category:   findings.CategoryReliability,
			Severity:   findings.SeverityHigh,
			Title:      "Disk usage is high (92%) on at least one filesystem",
			Impact:     "High disk usage can cause outages. Writes fail.",
			Confidence: findings.LevelHigh,
			Evidence: []findings.EvidenceRef{
				findings.NewLineEvidence("fixtures/linux/df_h.txt", "Filesystem above threshold", 2, 2),
			},
			FixNow: &findings.RemediationAction{
				Title:    "Identify top disk consumers",
				Commands: []string{"df -h", "du -xh / | sort -h | tail -n 30"},
			},
			Effort:        findings.LevelLow,
			BlastRadius:   findings.LevelLow,
			SuccessMetric: "Usage below 80%.",
			Plan7d:        []string{"Add alerts."},
			Questions:     []string{"Which mount grows?"},
		},
		{
			Category:   findings.CategorySecurity,
			Severity:   findings.SeverityLow,
			Title:      "HSTS is missing",
			Impact:     "Without HSTS | clients can downgrade.",
			Confidence: findings.LevelMedium,
			Evidence:   []findings.EvidenceRef{findings.NewEvidence("fixtures/edge/tls_scan.txt", "HSTS missing")},
		},
	}
}

func TestMarkdownEmpty(t *testing.T) {
	out := Markdown(report.Assemble(nil, defaultOptions()))

	assert.True(t, strings.HasPrefix(out, "# Teardown Report (Sample)\n\n"+frontDoorHeading+"\n"))
	assert.Contains(t, out, "- Findings: 0 total\n")
	assert.NotContains(t, out, "## Inputs reviewed")
	assert.NotContains(t, out, "## Top 3 fix-now wins")
	assert.NotContains(t, out, "## Raw evidence")
	assert.Contains(t, out, "| Sev | Area | Finding | Why it matters | Fix-now | Effort | Risk |\n|---|---|---|---|---|---|---|\n")
	assert.Contains(t, out, "**Next step:** [Book 15 minutes](#) — Replace this with your email / Calendly link\n")
	assert.True(t, strings.HasSuffix(out, "## Findings\n"))
}

func TestMarkdownFindings(t *testing.T) {
	opts := defaultOptions()
	opts.InputsReviewed = []string{"edge/tls_scan.txt", "linux/df_h.txt"}
	opts.CTA.ContactURL = "mailto:ops@example.com"
	opts.Revision = "main@1a2b3c4"

	out := Markdown(report.Assemble(sampleFindings(), opts))

	assert.Contains(t, out, "[Replace this with your email / Calendly link](mailto:ops@example.com)")
	assert.Contains(t, out, "_Snapshot revision: main@1a2b3c4_\n")
	assert.Contains(t, out, "- Findings: 2 total\n- High: 1\n- Low: 1\n")
	assert.Contains(t, out, "- `edge/tls_scan.txt`\n- `linux/df_h.txt`\n")
	assert.Contains(t, out, "- **[High] Disk usage is high (92%) on at least one filesystem** (Effort: Low, Blast radius: Low) — Fix now: *Identify top disk consumers*\n")
	assert.Contains(t, out, "| Low | Security | [**HSTS is missing**](#finding-0002) | Without HSTS \\| clients can downgrade | — | Medium | Medium |\n")
	assert.Contains(t, out, "<a id=\"finding-0001\"></a>\n#### [High] Disk usage is high (92%) on at least one filesystem\n")
	assert.Contains(t, out, "```bash\ndf -h\ndu -xh / | sort -h | tail -n 30\n```\n")
	assert.Contains(t, out, "**Validation / success / rollback:**\n- Success metric: Usage below 80%.\n\n")
	assert.Contains(t, out, "- fixtures/linux/df_h.txt:L2-L2 (Filesystem above threshold)\n")
	assert.Contains(t, out, "## Assumptions & limits")
	assert.Contains(t, out, "## What I need from you (access options)")
	assert.Contains(t, out, "## What I would verify with real access (48-hour verification plan)")

	security := strings.Index(out, "### Security")
	reliability := strings.Index(out, "### Reliability")
	require.NotEqual(t, -1, security)
	require.NotEqual(t, -1, reliability)
	assert.Less(t, security, reliability)

	assert.NotContains(t, out, "## Raw evidence")
	assert.True(t, strings.HasSuffix(out, "- Which mount grows?\n"))
}

func TestMarkdownEvidenceAppendix(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "linux"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "linux", "df_h.txt"), []byte("Filesystem Use%\n/dev/sda1 92%\n"), 0o644))

	opts := defaultOptions()
	opts.FixturesRoot = root
	items := sampleFindings()
	disk := items[0].Evidence[0]
	tls := items[1].Evidence[0]

	out := Markdown(report.Assemble(items, opts))

	assert.Contains(t, out, "- [fixtures/linux/df_h.txt:L2-L2 (Filesystem above threshold)](#"+disk.ID()+")\n")
	assert.Contains(t, out, "## Raw evidence\n\nEvidence links above jump here.")
	assert.Contains(t, out, "<a id=\""+disk.ID()+"\"></a>\n### fixtures/linux/df_h.txt:L2-L2 (Filesystem above threshold)\n\n<details>\n<summary>Show snippet</summary>\n\n```text\n    2: /dev/sda1 92%\n```\n\n</details>\n")
	assert.Contains(t, out, "<a id=\""+tls.ID()+"\"></a>\n### fixtures/edge/tls_scan.txt (HSTS missing)\n\n_Unable to load snippet from fixtures._\n")
	assert.Equal(t, 1, strings.Count(out, "<a id=\""+disk.ID()+"\">"))
}

func TestMarkdownIsDeterministic(t *testing.T) {
	items := sampleFindings()
	reversed := []findings.Finding{items[1], items[0]}

	first := Markdown(report.Assemble(items, defaultOptions()))
	second := Markdown(report.Assemble(items, defaultOptions()))
	third := Markdown(report.Assemble(reversed, defaultOptions()))

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.False(t, strings.HasSuffix(first, "\n\n"))
}

func TestHTML(t *testing.T) {
	md := Markdown(report.Assemble(sampleFindings(), defaultOptions()))

	out, err := HTML(md, "Report <draft>")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Report &lt;draft&gt;</title>")
	assert.Contains(t, out, `<nav class="toc">`)
	assert.Contains(t, out, `<a href="#executive-summary">Executive summary</a>`)
	assert.Contains(t, out, `<a id="finding-0001"></a>`)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `<code class="language-bash">`)
	assert.NotContains(t, out, "[TOC]")
}
