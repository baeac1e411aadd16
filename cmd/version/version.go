package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
	asJSON        bool
)

// Versions holds build information for the binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// CoreVersions holds version information for the core application and its check battery.
type CoreVersions struct {
	Versions Versions `json:"versions"`
	Checks   []string `json:"checks"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and the bundled checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := CoreVersions{
				Versions: Versions{
					Version:       CoreVersion,
					GolangVersion: GolangVersion,
					BuildTime:     BuildTime,
				},
				Checks: checks.Names(),
			}
			if asJSON {
				return printVersionJSON(cmd.OutOrStdout(), &version)
			}
			printVersionInfo(cmd.OutOrStdout(), &version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON.")
	return cmd
}

func printVersionJSON(w io.Writer, versions *CoreVersions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(versions)
}

// printVersionInfo prints the version information for the core application and checks.
func printVersionInfo(w io.Writer, versions *CoreVersions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	fmt.Fprintln(w, "Checks:")
	for _, name := range versions.Checks {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
}
