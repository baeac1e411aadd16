package run

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/teardown/cmd/version"
	"github.com/scan-io-git/teardown/internal/ci"
	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/git"
	"github.com/scan-io-git/teardown/internal/render"
	"github.com/scan-io-git/teardown/internal/report"
	"github.com/scan-io-git/teardown/internal/runner"
	"github.com/scan-io-git/teardown/internal/sarif"
	"github.com/scan-io-git/teardown/pkg/shared/artifacts"
	"github.com/scan-io-git/teardown/pkg/shared/config"
	"github.com/scan-io-git/teardown/pkg/shared/files"
)

// Output file names inside --out.
const (
	markdownFileName = "sample-report.md"
	htmlFileName     = "sample-report.html"
	indexFileName    = "index.html"
	noJekyllFileName = ".nojekyll"
	sarifFileName    = "teardown-report.sarif"
)

// generatedAtLayout renders local time with a numeric offset, e.g. 2024-01-10T10:00:00+00:00.
const generatedAtLayout = "2006-01-02T15:04:05-07:00"

// applyReportDefaults fills presentation options left empty on the command line from the config.
func applyReportDefaults(options *RunOptions, cfg config.Report) {
	options.Title = config.SetThen(options.Title, cfg.Title)
	options.CTALabel = config.SetThen(options.CTALabel, cfg.CTALabel)
	options.CTAURL = config.SetThen(options.CTAURL, cfg.CTAURL)
	options.ContactLine = config.SetThen(options.ContactLine, cfg.ContactLine)
	options.ContactURL = config.SetThen(options.ContactURL, cfg.ContactURL)
}

// snapshotRevision returns "branch@hash" when the snapshot lives in a git work tree.
// Otherwise the commit of the surrounding CI job is used, if any.
func snapshotRevision(root string, logger hclog.Logger) string {
	md, err := git.CollectSnapshotMetadata(root)
	if err == nil {
		return md.Revision()
	}
	if errors.Is(err, git.ErrNotRepository) {
		logger.Debug("snapshot is not versioned in git", "path", root)
	} else {
		logger.Debug("can't collect snapshot metadata", "error", err)
	}

	env, ok := ci.Detect()
	if !ok {
		return ""
	}
	logger.Debug("using CI provenance", "ci", env.Kind.String(), "repository", env.RepositoryFullName)
	return env.Revision()
}

// writeOutputs writes every requested artifact into the output folder and returns their paths in write order.
func writeOutputs(options *RunOptions, doc *report.Document, result runner.RunResult, now time.Time, logger hclog.Logger) ([]string, error) {
	if err := files.CreateFolderIfNotExists(options.OutputDir); err != nil {
		return nil, err
	}

	var written []string
	md := render.Markdown(doc)
	mdPath := filepath.Join(options.OutputDir, markdownFileName)
	if err := files.WriteFile(mdPath, []byte(md)); err != nil {
		return written, fmt.Errorf("failed to write markdown report: %w", err)
	}
	written = append(written, mdPath)

	if options.HTML {
		page, err := render.HTML(md, options.Title)
		if err != nil {
			return written, err
		}
		for _, name := range []string{htmlFileName, indexFileName} {
			path := filepath.Join(options.OutputDir, name)
			if err := files.WriteFile(path, []byte(page)); err != nil {
				return written, fmt.Errorf("failed to write html report: %w", err)
			}
			written = append(written, path)
		}

		created, err := files.WriteFileIfMissing(filepath.Join(options.OutputDir, noJekyllFileName), nil)
		if err != nil {
			return written, err
		}
		logger.Debug("static hosting marker", "file", noJekyllFileName, "created", created)
	}

	if options.SARIF {
		sarifReport, err := sarif.FromFindings(result.Findings, version.CoreVersion)
		if err != nil {
			return written, err
		}
		path := filepath.Join(options.OutputDir, sarifFileName)
		if err := sarif.Write(sarifReport, path); err != nil {
			return written, err
		}
		written = append(written, path)
		logger.Debug("sarif report written", "path", path, "levels", sarif.CollectSeverityInfo(sarifReport))
	}

	if options.JSON {
		path, err := artifacts.SaveArtifactJSON(options.OutputDir, artifacts.NewArtifact("run", result, now), logger)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func countFailed(outcomes []runner.CheckOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == runner.StatusFailed {
			n++
		}
	}
	return n
}

func severityColor(severity string) *color.Color {
	switch severity {
	case findings.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case findings.SeverityHigh:
		return color.New(color.FgRed)
	case findings.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// printSummary prints the written paths followed by severity counts and check outcomes.
func printSummary(w io.Writer, doc *report.Document, result runner.RunResult, written []string) {
	for _, path := range written {
		fmt.Fprintf(w, "Wrote: %s\n", path)
	}

	fmt.Fprintf(w, "Findings: %d total\n", doc.Summary.Total)
	for _, c := range doc.Summary.Counts {
		severityColor(c.Severity).Fprintf(w, "  %s: %d\n", c.Label, c.Count)
	}

	statuses := map[string]int{}
	for _, o := range result.Checks {
		statuses[o.Status]++
	}
	failed := statuses[runner.StatusFailed]
	line := fmt.Sprintf("Checks: %d ok, %d skipped, %d failed\n",
		statuses[runner.StatusOK], statuses[runner.StatusSkipped], failed)
	if failed > 0 {
		color.New(color.FgRed).Fprint(w, line)
		return
	}
	fmt.Fprint(w, line)
}
