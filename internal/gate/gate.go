package gate

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/scan-io-git/teardown/internal/findings"
)

// Gate is a compiled CEL expression deciding whether a run should fail.
//
// Expressions see the integer variables critical, high, medium, low, total and
// failed_checks, plus findings: a list of maps with the keys category, severity,
// title and source. Example: `critical > 0 || findings.exists(f, f.category == "Security")`.
type Gate struct {
	expr    string
	program cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("critical", cel.IntType),
		cel.Variable("high", cel.IntType),
		cel.Variable("medium", cel.IntType),
		cel.Variable("low", cel.IntType),
		cel.Variable("total", cel.IntType),
		cel.Variable("failed_checks", cel.IntType),
		cel.Variable("findings", cel.ListType(cel.MapType(cel.StringType, cel.StringType))),
	)
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string) (*Gate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid gate expression %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("gate expression %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program construction error: %w", err)
	}
	return &Gate{expr: expr, program: prg}, nil
}

// String returns the source expression.
func (g *Gate) String() string {
	return g.expr
}

// Evaluate reports whether the gate trips for the given findings.
func (g *Gate) Evaluate(items []findings.Finding, failedChecks int) (bool, error) {
	out, _, err := g.program.Eval(variables(items, failedChecks))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate gate %q: %w", g.expr, err)
	}
	tripped, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("gate %q returned %T, not bool", g.expr, out.Value())
	}
	return tripped, nil
}

func variables(items []findings.Finding, failedChecks int) map[string]interface{} {
	counts := findings.CountBySeverity(items)

	list := make([]map[string]string, 0, len(items))
	for _, f := range items {
		list = append(list, map[string]string{
			"category": string(f.Category),
			"severity": f.Severity,
			"title":    f.Title,
			"source":   f.Source,
		})
	}

	return map[string]interface{}{
		"critical":      counts[findings.SeverityCritical],
		"high":          counts[findings.SeverityHigh],
		"medium":        counts[findings.SeverityMedium],
		"low":           counts[findings.SeverityLow],
		"total":         len(items),
		"failed_checks": failedChecks,
		"findings":      list,
	}
}
