package checks

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/sets"

	registry "github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/pkg/shared/config"
)

var AppConfig *config.Config

// ChecksCmd represents the checks command.
var ChecksCmd = &cobra.Command{
	Use:                   "checks",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "List the registered checks in execution order",
	Run: func(cmd *cobra.Command, args []string) {
		printChecks(cmd.OutOrStdout(), registry.Names(), AppConfig.Checks.Disabled)
	},
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func printChecks(w io.Writer, names, disabled []string) {
	off := sets.New[string](disabled...)
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	for i, n := range names {
		fmt.Fprintf(w, "%2d. %-*s  ", i+1, width, n)
		if off.Has(n) {
			color.New(color.FgYellow).Fprintln(w, "disabled")
			continue
		}
		color.New(color.FgGreen).Fprintln(w, "enabled")
	}
}
