package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/teardown/cmd/checks"
	"github.com/scan-io-git/teardown/cmd/run"
	tohtml "github.com/scan-io-git/teardown/cmd/to-html"
	"github.com/scan-io-git/teardown/cmd/version"
	registry "github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/pkg/shared/config"
	teardownerrors "github.com/scan-io-git/teardown/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "teardown [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Teardown turns a snapshot of operational artifacts into a prioritized fix list.",
		Long: `Teardown is a static diagnostic engine. It reads a directory of captured artifacts
	(disk usage, service logs, listening ports, Postgres statistics, edge configuration, cost exports),
	runs a fixed battery of checks over them and renders the findings as a report.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigFile+" when present)")
	rootCmd.AddCommand(run.RunCmd)
	rootCmd.AddCommand(checks.ChecksCmd)
	rootCmd.AddCommand(tohtml.ToHTMLCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	var cmdErr *teardownerrors.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return teardownerrors.ExitCodeFailure
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error

	AppConfig, err = config.LoadConfig(config.ResolveConfigPath(cfgFile))
	if err != nil {
		return fmt.Errorf("initializing config file function is crashed: %w", err)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return err
	}
	if err := registry.ValidateNames(AppConfig.Checks.Disabled); err != nil {
		return fmt.Errorf("YAML global config: checks directive is invalid: disabled: %w", err)
	}

	run.Init(AppConfig)
	checks.Init(AppConfig)
	tohtml.Init(AppConfig)
	version.Init(AppConfig)
	return nil
}
