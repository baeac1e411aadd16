// Package checks holds the diagnostic checks run against a snapshot and the ordered registry of them.
package checks

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
	"github.com/scan-io-git/teardown/pkg/shared/config"
)

// Check inspects one or more snapshot artifacts.
//
// Applies is a cheap existence probe; Run is only called when it returns true.
// Run returns no findings for artifacts it cannot interpret. Returning an error
// (or panicking) is reported by the runner as a failed check.
type Check interface {
	Name() string
	Applies(fx fixtures.Source) bool
	Run(fx fixtures.Source) ([]findings.Finding, error)
}

// evidencePrefix is prepended to artifact paths in evidence references.
const evidencePrefix = "fixtures/"

// DefaultAllowedPublicPorts is the listener allow-list used when none is configured.
var DefaultAllowedPublicPorts = []int{22, 80, 443}

// Registry returns the checks in execution order, leaving out the ones disabled in cfg.
func Registry(cfg config.Checks) []Check {
	disabled := sets.New[string](cfg.Disabled...)

	var out []Check
	for _, c := range all(cfg) {
		if disabled.Has(c.Name()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Names returns the names of every known check in execution order.
func Names() []string {
	var names []string
	for _, c := range all(config.Checks{}) {
		names = append(names, c.Name())
	}
	return names
}

// ValidateNames returns an error for the first name that is not a known check.
func ValidateNames(names []string) error {
	known := sets.New[string](Names()...)
	for _, n := range names {
		if !known.Has(n) {
			return fmt.Errorf("unknown check %q", n)
		}
	}
	return nil
}

func all(cfg config.Checks) []Check {
	ports := cfg.AllowedPublicPorts
	if len(ports) == 0 {
		ports = DefaultAllowedPublicPorts
	}

	return []Check{
		&DiskCheck{},
		&SystemdFlapCheck{},
		&PodRestartsCheck{},
		NewPortsCheck(ports),
		&SlowQueriesCheck{},
		&SeqScansCheck{},
		&AutovacuumCheck{},
		&PoolSaturationCheck{},
		&ProxyTimeoutsCheck{},
		&TLSPolicyCheck{},
		&CostSignalsCheck{},
	}
}

// splitLines splits text into lines without their terminators.
// A trailing newline does not produce an extra empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// dataLines returns the lines that follow the first non-blank (header) line,
// paired with their 1-based line numbers in the original text.
func dataLines(text string) []numberedLine {
	lines := splitLines(text)
	var out []numberedLine
	headerSeen := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		out = append(out, numberedLine{number: i + 1, text: line})
	}
	return out
}

type numberedLine struct {
	number int
	text   string
}

func evidencePath(rel string) string {
	return evidencePrefix + rel
}
