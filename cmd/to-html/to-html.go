package tohtml

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/teardown/internal/render"
	"github.com/scan-io-git/teardown/pkg/shared/config"
	"github.com/scan-io-git/teardown/pkg/shared/errors"
	"github.com/scan-io-git/teardown/pkg/shared/files"
	"github.com/scan-io-git/teardown/pkg/shared/logger"
)

// defaultOutputName is used when --output names a directory.
const defaultOutputName = "sample-report.html"

// ToHTMLOptions holds the arguments for the to-html command.
type ToHTMLOptions struct {
	Input      string
	OutputFile string
	Title      string
}

var (
	AppConfig         *config.Config
	allToHTMLOptions  ToHTMLOptions
	execExampleToHTML = `  # Render an existing Markdown report as a standalone HTML page
  teardown to-html --input ./docs/sample-report.md --output ./docs/sample-report.html --title "Teardown Report"`
)

// ToHTMLCmd represents the to-html command.
var ToHTMLCmd = &cobra.Command{
	Use:                   "to-html -i /path/to/report.md -o /path/to/report.html [--title TITLE]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Generate HTML formatted report from a Markdown report",
	Example:               execExampleToHTML,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logger.NewLogger(AppConfig, "core-to-html")

		if err := validateToHTMLArgs(&allToHTMLOptions); err != nil {
			logger.Error("invalid to-html arguments", "error", err)
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}

		md, err := os.ReadFile(allToHTMLOptions.Input)
		if err != nil {
			return errors.NewCommandError(fmt.Errorf("failed to read %q: %w", allToHTMLOptions.Input, err), errors.ExitCodeFailure)
		}

		title := config.SetThen(allToHTMLOptions.Title, AppConfig.Report.Title)
		page, err := render.HTML(string(md), title)
		if err != nil {
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}

		outputPath, folder, err := files.DetermineFileFullPath(allToHTMLOptions.OutputFile, defaultOutputName)
		if err != nil {
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}
		if err := files.CreateFolderIfNotExists(folder); err != nil {
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}
		if err := files.WriteFile(outputPath, []byte(page)); err != nil {
			return errors.NewCommandError(fmt.Errorf("failed to write html report: %w", err), errors.ExitCodeFailure)
		}
		logger.Info("html report written", "path", outputPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", outputPath)
		return nil
	},
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func validateToHTMLArgs(options *ToHTMLOptions) error {
	if options.Input == "" {
		return fmt.Errorf("the 'input' flag must be specified")
	}
	if options.OutputFile == "" {
		return fmt.Errorf("the 'output' flag must be specified")
	}

	input, err := files.ExpandPath(options.Input)
	if err != nil {
		return err
	}
	if err := files.ValidatePath(input); err != nil {
		return fmt.Errorf("invalid input report: %w", err)
	}
	options.Input = input

	return nil
}

func init() {
	ToHTMLCmd.Flags().StringVarP(&allToHTMLOptions.Input, "input", "i", "", "Markdown report to convert")
	ToHTMLCmd.Flags().StringVarP(&allToHTMLOptions.OutputFile, "output", "o", "", "HTML file to write, or a directory to write '"+defaultOutputName+"' into")
	ToHTMLCmd.Flags().StringVarP(&allToHTMLOptions.Title, "title", "t", "", "Page title. Defaults to report.title from the config.")
}
