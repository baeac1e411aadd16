package report

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/pkg/shared/logger"
)

const (
	topWinsLimit         = 3
	defaultDisplayPrefix = "fixtures/"
)

// Options controls report assembly.
type Options struct {
	Title          string
	GeneratedAt    string
	InputsReviewed []string
	// FixturesRoot enables evidence links and the raw evidence appendix when set.
	FixturesRoot    string
	CTA             CTA
	Revision        string
	SnippetMaxLines int
	DisplayPrefix   string
	Logger          hclog.Logger
}

// Assemble orders findings and builds the report document. The input slice is not modified.
func Assemble(items []findings.Finding, opts Options) *Document {
	log := logger.OrNull(opts.Logger)
	if opts.SnippetMaxLines <= 0 {
		opts.SnippetMaxLines = DefaultSnippetMaxLines
	}
	if opts.DisplayPrefix == "" {
		opts.DisplayPrefix = defaultDisplayPrefix
	}

	sorted := findings.Sort(items)
	anchors := make(map[int]string, len(sorted))
	for i := range sorted {
		anchors[i] = findingAnchor(i + 1)
	}

	doc := &Document{
		Title:          opts.Title,
		GeneratedAt:    opts.GeneratedAt,
		CTA:            opts.CTA,
		Revision:       opts.Revision,
		Summary:        summarize(sorted),
		InputsReviewed: opts.InputsReviewed,
		TopWins:        topWins(sorted, anchors),
	}

	for i, f := range sorted {
		fix := ""
		if f.HasFixNow() {
			fix = f.FixNow.Title
		}
		doc.Triage = append(doc.Triage, TriageRow{
			Label:    f.SeverityLabel(),
			Category: f.Category,
			Title:    f.Title,
			Anchor:   anchors[i],
			Why:      firstSentence(f.Impact),
			FixNow:   fix,
			Effort:   f.EffortOrDefault(),
			Risk:     f.BlastRadiusOrDefault(),
		})
	}

	withEvidence := opts.FixturesRoot != ""
	reader := snippetReader{
		root:          opts.FixturesRoot,
		displayPrefix: opts.DisplayPrefix,
		maxLines:      opts.SnippetMaxLines,
	}
	blocks := make(map[string]EvidenceBlock)

	for _, group := range groupByCategory(sorted) {
		section := Section{Category: group.category}
		for _, i := range group.positions {
			f := sorted[i]
			entry := Entry{
				Anchor:  anchors[i],
				Label:   f.SeverityLabel(),
				Finding: f,
			}
			for _, ev := range f.Evidence {
				link := EvidenceLink{Label: ev.Format()}
				if withEvidence {
					id := ev.ID()
					if _, seen := blocks[id]; !seen {
						snippet, err := reader.read(ev)
						if err != nil {
							log.Debug("evidence snippet unavailable", "evidence", ev.Path, "error", err)
						}
						blocks[id] = EvidenceBlock{ID: id, Ref: ev, Label: link.Label, Snippet: snippet}
					}
					link.ID = id
				}
				entry.Evidence = append(entry.Evidence, link)
			}
			section.Entries = append(section.Entries, entry)
		}
		doc.Sections = append(doc.Sections, section)
	}

	for _, b := range blocks {
		doc.Appendix = append(doc.Appendix, b)
	}
	sort.Slice(doc.Appendix, func(i, j int) bool {
		return doc.Appendix[i].ID < doc.Appendix[j].ID
	})

	return doc
}

func summarize(sorted []findings.Finding) Summary {
	counts := findings.CountBySeverity(sorted)
	s := Summary{Total: len(sorted)}
	for _, key := range findings.Severities() {
		if n := counts[key]; n > 0 {
			s.Counts = append(s.Counts, SeverityCount{Severity: key, Label: findings.SeverityLabel(key), Count: n})
		}
	}
	return s
}

// topWins picks up to three findings with a fix-now action, highest severity first.
func topWins(sorted []findings.Finding, anchors map[int]string) []TopWin {
	var positions []int
	for i := range sorted {
		if sorted[i].HasFixNow() {
			positions = append(positions, i)
		}
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return findings.PriorityLess(sorted[positions[a]], sorted[positions[b]])
	})
	if len(positions) > topWinsLimit {
		positions = positions[:topWinsLimit]
	}

	var wins []TopWin
	for _, i := range positions {
		f := sorted[i]
		wins = append(wins, TopWin{
			Label:       f.SeverityLabel(),
			Title:       f.Title,
			Effort:      f.EffortOrDefault(),
			BlastRadius: f.BlastRadiusOrDefault(),
			FixTitle:    f.FixNow.Title,
			Anchor:      anchors[i],
		})
	}
	return wins
}

type categoryGroup struct {
	category  findings.Category
	positions []int
}

// groupByCategory groups sorted positions by category: display categories first, then any
// other category alphabetically.
func groupByCategory(sorted []findings.Finding) []categoryGroup {
	byCategory := make(map[findings.Category][]int)
	for i, f := range sorted {
		byCategory[f.Category] = append(byCategory[f.Category], i)
	}

	var groups []categoryGroup
	known := make(map[findings.Category]bool)
	for _, c := range findings.DisplayCategories {
		known[c] = true
		if positions := byCategory[c]; len(positions) > 0 {
			groups = append(groups, categoryGroup{category: c, positions: positions})
		}
	}

	var extra []findings.Category
	for c := range byCategory {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		groups = append(groups, categoryGroup{category: c, positions: byCategory[c]})
	}
	return groups
}
