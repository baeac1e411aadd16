package run

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/teardown/pkg/shared/files"
)

// validateRunArgs validates the arguments provided to the run command
// and expands the fixtures and output paths in place.
func validateRunArgs(options *RunOptions) error {
	if options.FixturesDir == "" {
		return fmt.Errorf("the 'fixtures' flag must be specified")
	}
	if options.OutputDir == "" {
		return fmt.Errorf("the 'out' flag must be specified")
	}

	fixturesDir, err := files.ExpandPath(options.FixturesDir)
	if err != nil {
		return fmt.Errorf("failed to expand fixtures path %q: %w", options.FixturesDir, err)
	}
	if err := files.ValidateDir(fixturesDir); err != nil {
		return fmt.Errorf("invalid fixtures directory: %w", err)
	}
	options.FixturesDir = fixturesDir

	outputDir, err := files.ExpandPath(options.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output path %q: %w", options.OutputDir, err)
	}
	options.OutputDir = outputDir

	if strings.TrimSpace(options.Title) == "" {
		return fmt.Errorf("the report title must not be empty")
	}
	return nil
}
