package run

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/internal/gate"
	"github.com/scan-io-git/teardown/internal/report"
	"github.com/scan-io-git/teardown/internal/runner"
	"github.com/scan-io-git/teardown/pkg/shared/config"
	"github.com/scan-io-git/teardown/pkg/shared/errors"
	"github.com/scan-io-git/teardown/pkg/shared/logger"
)

// RunOptions holds the arguments for the run command.
type RunOptions struct {
	FixturesDir string
	OutputDir   string
	Title       string
	HTML        bool
	SARIF       bool
	JSON        bool
	CTALabel    string
	CTAURL      string
	ContactLine string
	ContactURL  string
	FailOn      string
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	runOptions      RunOptions
	exampleRunUsage = `  # Generate a Markdown report from a snapshot directory
  teardown run --fixtures ./fixtures --out ./docs

  # Also publish HTML (sample-report.html, index.html and .nojekyll for static hosting)
  teardown run --fixtures ./fixtures --out ./docs --html

  # Export SARIF and the JSON run artifact next to the report
  teardown run --fixtures ./fixtures --out ./docs --sarif --json

  # Customise the call to action
  teardown run --fixtures ./fixtures --out ./docs --cta-label "Book a call" --cta-url https://example.com/book --contact-line "ops@example.com" --contact-url mailto:ops@example.com

  # Fail with exit code 2 when any high or critical finding is present
  teardown run --fixtures ./fixtures --out ./docs --fail-on "critical + high > 0"`
)

// RunCmd represents the run command.
var RunCmd = &cobra.Command{
	Use:                   "run --fixtures PATH --out PATH [--title TITLE] [--html] [--sarif] [--json] [--fail-on EXPR]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRunUsage,
	Short:                 "Run every check against a snapshot and write the report",
	RunE:                  runRunCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runRunCommand executes the run command.
func runRunCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-run")

	applyReportDefaults(&runOptions, AppConfig.Report)
	if err := validateRunArgs(&runOptions); err != nil {
		logger.Error("invalid run arguments", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	var g *gate.Gate
	if runOptions.FailOn != "" {
		compiled, err := gate.Compile(runOptions.FailOn)
		if err != nil {
			logger.Error("invalid gate expression", "error", err)
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}
		g = compiled
	}

	r := runner.New(checks.Registry(AppConfig.Checks), logger)
	result := r.Run(runOptions.FixturesDir)

	now := time.Now()
	doc := report.Assemble(result.Findings, report.Options{
		Title:          runOptions.Title,
		GeneratedAt:    now.Format(generatedAtLayout),
		InputsReviewed: result.InputsReviewed,
		FixturesRoot:   runOptions.FixturesDir,
		CTA: report.CTA{
			Label:       runOptions.CTALabel,
			URL:         runOptions.CTAURL,
			ContactLine: runOptions.ContactLine,
			ContactURL:  runOptions.ContactURL,
		},
		Revision:        snapshotRevision(runOptions.FixturesDir, logger),
		SnippetMaxLines: AppConfig.Report.SnippetMaxLines,
		DisplayPrefix:   AppConfig.Report.DisplayPrefix,
		Logger:          logger,
	})

	written, err := writeOutputs(&runOptions, doc, result, now, logger)
	if err != nil {
		logger.Error("failed to write outputs", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	printSummary(cmd.OutOrStdout(), doc, result, written)

	if g == nil {
		logger.Info("run command completed successfully", "findings", len(result.Findings))
		return nil
	}
	tripped, err := g.Evaluate(result.Findings, countFailed(result.Checks))
	if err != nil {
		logger.Error("failed to evaluate gate", "expression", g.String(), "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}
	if tripped {
		logger.Warn("gate tripped", "expression", g.String())
		return errors.NewGateError(g.String())
	}
	logger.Info("run command completed successfully", "findings", len(result.Findings))
	return nil
}

// Initialize flags for the run command.
func init() {
	RunCmd.Flags().StringVar(&runOptions.FixturesDir, "fixtures", "", "Path to the snapshot root (e.g., ./fixtures).")
	RunCmd.Flags().StringVar(&runOptions.OutputDir, "out", "", "Output directory for the report (e.g., ./docs).")
	RunCmd.Flags().StringVar(&runOptions.Title, "title", "", "Report title. Defaults to report.title from the config.")
	RunCmd.Flags().BoolVar(&runOptions.HTML, "html", false, "Also generate sample-report.html, index.html and .nojekyll.")
	RunCmd.Flags().BoolVar(&runOptions.SARIF, "sarif", false, "Also export findings as "+sarifFileName+".")
	RunCmd.Flags().BoolVar(&runOptions.JSON, "json", false, "Also write the run artifact as JSON.")
	RunCmd.Flags().StringVar(&runOptions.CTALabel, "cta-label", "", "CTA label shown near the top of the report.")
	RunCmd.Flags().StringVar(&runOptions.CTAURL, "cta-url", "", "CTA URL (Calendly, mailto, website contact page, etc.).")
	RunCmd.Flags().StringVar(&runOptions.ContactLine, "contact-line", "", "Short contact line shown next to the CTA.")
	RunCmd.Flags().StringVar(&runOptions.ContactURL, "contact-url", "", "Optional URL for the contact line. '#' keeps it as plain text.")
	RunCmd.Flags().StringVar(&runOptions.FailOn, "fail-on", "", "CEL expression over the run; exit with code 2 when it evaluates to true.")
	RunCmd.Flags().BoolP("help", "h", false, "Show help for the run command.")
}
