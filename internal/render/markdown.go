package render

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/teardown/internal/report"
)

const (
	frontDoorHeading = "## Teardown in a Box (48-hour non-invasive teardown)"
	noFixNow         = "—"
)

// Markdown serializes doc. The same document always yields the same bytes,
// and the output ends with exactly one newline.
func Markdown(doc *report.Document) string {
	w := &mdWriter{}

	w.line("# %s", doc.Title)
	w.blank()

	w.frontDoor(doc.CTA)

	w.line("_Generated: %s_", doc.GeneratedAt)
	if doc.Revision != "" {
		w.line("_Snapshot revision: %s_", doc.Revision)
	}
	w.blank()

	w.line("## Executive summary")
	w.blank()
	w.line("- Findings: %d total", doc.Summary.Total)
	for _, c := range doc.Summary.Counts {
		w.line("- %s: %d", c.Label, c.Count)
	}
	w.blank()

	if len(doc.InputsReviewed) > 0 {
		w.line("## Inputs reviewed (scope)")
		w.blank()
		w.line("This report is generated from the following snapshot artifacts (synthetic fixtures in this demo).")
		w.blank()
		for _, p := range doc.InputsReviewed {
			w.line("- `%s`", p)
		}
		w.blank()
	}

	if len(doc.TopWins) > 0 {
		w.line("## Top 3 fix-now wins (highest ROI)")
		w.blank()
		for _, win := range doc.TopWins {
			w.line("- **[%s] %s** (Effort: %s, Blast radius: %s) — Fix now: *%s*",
				win.Label, win.Title, win.Effort, win.BlastRadius, win.FixTitle)
		}
		w.blank()
	}

	w.triage(doc.Triage)

	w.raw(assumptionsMarkdown)
	w.blank()
	w.raw(accessMarkdown)
	w.blank()
	w.raw(verifyPlanMarkdown)
	w.blank()

	w.line("## Findings")
	w.blank()
	for _, s := range doc.Sections {
		w.line("### %s", s.Category)
		w.blank()
		for _, e := range s.Entries {
			w.entry(e)
		}
		w.blank()
	}

	if len(doc.Appendix) > 0 {
		w.appendix(doc.Appendix)
	}

	return strings.TrimRight(w.String(), " \t\r\n") + "\n"
}

type mdWriter struct {
	strings.Builder
}

func (w *mdWriter) line(format string, args ...any) {
	if len(args) == 0 {
		w.WriteString(format)
	} else {
		fmt.Fprintf(w, format, args...)
	}
	w.WriteByte('\n')
}

func (w *mdWriter) raw(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func (w *mdWriter) blank() {
	w.WriteByte('\n')
}

func (w *mdWriter) frontDoor(cta report.CTA) {
	w.line(frontDoorHeading)
	w.blank()
	w.line("**What this is:** A fast, non-invasive teardown that turns a messy system into a prioritized fix list.")
	w.line("**What you get:** A report like this + a short call to confirm priorities + a fix-now shortlist.")
	w.line("**Who it's for:** Small SaaS / agencies / teams with recurring incidents, slow Postgres, and unclear next steps.")
	w.blank()

	contact := cta.ContactLine
	if cta.ContactURL != "" && cta.ContactURL != "#" {
		contact = fmt.Sprintf("[%s](%s)", cta.ContactLine, cta.ContactURL)
	}
	w.line("**Next step:** [%s](%s) — %s", cta.Label, cta.URL, contact)
	w.blank()
}

func (w *mdWriter) triage(rows []report.TriageRow) {
	w.line("## Triage table (skim-friendly)")
	w.blank()
	w.line("| Sev | Area | Finding | Why it matters | Fix-now | Effort | Risk |")
	w.line("|---|---|---|---|---|---|---|")
	for _, r := range rows {
		fix := r.FixNow
		if fix == "" {
			fix = noFixNow
		}
		w.line("| %s | %s | [**%s**](#%s) | %s | %s | %s | %s |",
			cell(r.Label), cell(string(r.Category)), cell(r.Title), r.Anchor,
			cell(r.Why), cell(fix), r.Effort, r.Risk)
	}
	w.blank()
}

func (w *mdWriter) entry(e report.Entry) {
	f := e.Finding

	w.line(`<a id="%s"></a>`, e.Anchor)
	w.line("#### [%s] %s", e.Label, f.Title)
	w.blank()
	w.line("**Impact:** %s", f.Impact)
	w.blank()
	w.line("**Confidence:** %s", f.Confidence)
	w.blank()
	w.line("**Effort / Blast radius:** %s / %s", f.EffortOrDefault(), f.BlastRadiusOrDefault())
	w.blank()

	if len(e.Evidence) > 0 {
		w.line("**Evidence:**")
		for _, ev := range e.Evidence {
			if ev.ID != "" {
				w.line("- [%s](#%s)", ev.Label, ev.ID)
			} else {
				w.line("- %s", ev.Label)
			}
		}
		w.blank()
	}

	if f.HasFixNow() {
		w.line("**Fix now:** %s", f.FixNow.Title)
		w.blank()
		if len(f.FixNow.Commands) > 0 {
			w.line("```bash")
			for _, c := range f.FixNow.Commands {
				w.raw(c)
			}
			w.line("```")
			w.blank()
		}
		if f.FixNow.Snippet != "" {
			w.line("```")
			w.raw(f.FixNow.Snippet)
			w.line("```")
			w.blank()
		}
	}

	if f.HasValidation() {
		w.line("**Validation / success / rollback:**")
		if f.ValidateSafely != "" {
			w.line("- Validate safely: %s", f.ValidateSafely)
		}
		if f.SuccessMetric != "" {
			w.line("- Success metric: %s", f.SuccessMetric)
		}
		if f.Rollback != "" {
			w.line("- Rollback: %s", f.Rollback)
		}
		w.blank()
	}

	w.list("**7-day plan:**", f.Plan7d)
	w.list("**30-day plan:**", f.Plan30d)
	w.list("**Questions I need answered:**", f.Questions)
}

func (w *mdWriter) list(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	w.line(heading)
	for _, item := range items {
		w.line("- %s", item)
	}
	w.blank()
}

func (w *mdWriter) appendix(blocks []report.EvidenceBlock) {
	w.line("## Raw evidence")
	w.blank()
	w.line("Evidence links above jump here. Snippets are extracted from the fixture bundle used to generate this report.")
	w.blank()
	for _, b := range blocks {
		w.line(`<a id="%s"></a>`, b.ID)
		w.line("### %s", b.Label)
		w.blank()
		if !b.Snippet.Available {
			w.line("_Unable to load snippet from fixtures._")
			w.blank()
			continue
		}
		w.line("<details>")
		w.line("<summary>Show snippet</summary>")
		w.blank()
		w.line("```text")
		w.raw(b.Snippet.Text)
		w.line("```")
		w.blank()
		w.line("</details>")
		w.blank()
	}
}

// cell escapes pipes so text stays inside its table column.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
