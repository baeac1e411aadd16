package runner

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
	"github.com/scan-io-git/teardown/pkg/shared/config"
	"github.com/scan-io-git/teardown/pkg/shared/logger"
)

// Outcome statuses of a single check.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// CheckOutcome records what happened to one registered check during a run.
type CheckOutcome struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Findings int    `json:"findings"`
	Message  string `json:"message,omitempty"`
}

// RunResult is the raw output of a run: findings in check order, the inputs seen and per-check outcomes.
type RunResult struct {
	Findings       []findings.Finding `json:"findings"`
	InputsReviewed []string           `json:"inputs_reviewed"`
	Checks         []CheckOutcome     `json:"checks"`
}

// Runner executes checks against a snapshot directory.
type Runner struct {
	checks []checks.Check // Checks in execution order
	logger hclog.Logger   // Logger for per-check progress and failures
}

// New creates a Runner over the given checks.
func New(checks []checks.Check, logger hclog.Logger) *Runner {
	return &Runner{
		checks: checks,
		logger: logger,
	}
}

// RunAllChecks runs the default registry against root without logging.
func RunAllChecks(root string) RunResult {
	return New(checks.Registry(config.Checks{}), nil).Run(root)
}

// Run lists the inputs under root and executes every applicable check.
// A check that returns an error or panics yields one synthetic finding and the run continues.
func (r *Runner) Run(root string) RunResult {
	log := logger.OrNull(r.logger)
	fx := fixtures.New(root)

	inputs, err := fixtures.ListFiles(root)
	if err != nil {
		// a partial listing is still reported
		log.Warn("failed to list some snapshot inputs", "root", root, "error", err)
	}
	if inputs == nil {
		inputs = []string{}
	}
	result := RunResult{
		Findings:       []findings.Finding{},
		InputsReviewed: inputs,
		Checks:         []CheckOutcome{},
	}

	for _, c := range r.checks {
		name := c.Name()
		applies, out, err := execute(c, fx)
		switch {
		case err != nil:
			log.Warn("check failed", "check", name, "error", err)
			result.Findings = append(result.Findings, failedCheckFinding(name, err))
			result.Checks = append(result.Checks, CheckOutcome{Name: name, Status: StatusFailed, Findings: 1, Message: err.Error()})
		case !applies:
			log.Debug("check skipped", "check", name)
			result.Checks = append(result.Checks, CheckOutcome{Name: name, Status: StatusSkipped})
		default:
			for i := range out {
				out[i].Source = name
			}
			log.Debug("check finished", "check", name, "findings", len(out))
			result.Findings = append(result.Findings, out...)
			result.Checks = append(result.Checks, CheckOutcome{Name: name, Status: StatusOK, Findings: len(out)})
		}
	}

	return result
}

// execute calls Applies and Run inside a fault boundary.
func execute(c checks.Check, fx fixtures.Source) (applies bool, out []findings.Finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if !c.Applies(fx) {
		return false, nil, nil
	}
	out, err = c.Run(fx)
	if err != nil {
		return true, nil, err
	}
	return true, out, nil
}

func failedCheckFinding(name string, err error) findings.Finding {
	return findings.Finding{
		Category:    findings.CategoryReliability,
		Severity:    findings.SeverityLow,
		Title:       fmt.Sprintf("Check failed: %s", name),
		Impact:      fmt.Sprintf("A check raised an exception and was skipped: %s", err),
		Confidence:  findings.LevelLow,
		Effort:      findings.LevelLow,
		BlastRadius: findings.LevelLow,
		Plan7d:      []string{"Review fixture format and check implementation for robustness."},
		Plan30d:     []string{"Add tests/fixtures variants to harden parsers against real-world noise."},
		Questions:   []string{"Are fixture formats consistent with your target environments?"},
		Source:      name,
	}
}
