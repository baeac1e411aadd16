package checks

import (
	"sort"
	"strings"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	slowQueriesArtifact = "postgres/pg_stat_statements.csv"
	slowQueriesTop      = 3
)

// SlowQueriesCheck reports the queries dominating total execution time in pg_stat_statements.
type SlowQueriesCheck struct{}

func (c *SlowQueriesCheck) Name() string { return "postgres.slow_queries" }

func (c *SlowQueriesCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(slowQueriesArtifact)
}

func (c *SlowQueriesCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	rows, ok, err := fx.ReadTabular(slowQueriesArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	top := topQueries(rows, slowQueriesTop)
	if len(top) == 0 {
		return nil, nil
	}

	commands := []string{
		"# For each top query, run EXPLAIN (ANALYZE, BUFFERS) in a safe environment",
		`# Confirm indexes with \d+ <table> and actual query patterns (params, ordering)`,
	}
	var hints []string
	for _, r := range top {
		q := strings.Trim(strings.TrimSpace(r["query"]), `"`)
		if hint := indexHint(q); hint != "" {
			hints = append(hints, hint)
		}
	}
	if len(hints) > 0 {
		commands = append(commands, "# Candidate index statements (validate with EXPLAIN + production constraints):")
		commands = append(commands, hints...)
	}

	return []findings.Finding{{
		Category: findings.CategoryPerformance,
		Severity: findings.SeverityHigh,
		Title:    "Postgres shows heavy time spent in a small set of queries (pg_stat_statements)",
		Impact: "A handful of queries often dominate database load. Improving them typically reduces p95 latency, " +
			"stabilizes CPU, and lowers infra cost by delaying scale-up.",
		Confidence: findings.LevelMedium,
		Evidence: []findings.EvidenceRef{
			findings.NewLineEvidence(evidencePath(slowQueriesArtifact), "Top queries by total_time_ms (sample)", 1, 1+len(top)),
		},
		FixNow: &findings.RemediationAction{
			Title:    "Validate query plans and implement the highest-impact index/query changes",
			Commands: commands,
		},
		Effort:         findings.LevelMedium,
		BlastRadius:    findings.LevelMedium,
		ValidateSafely: "Build candidate indexes CONCURRENTLY on a replica or staging copy and compare plans first.",
		SuccessMetric:  "Total time of the top queries drops and DB p95 latency improves at peak.",
		Rollback:       "DROP INDEX CONCURRENTLY the new index if write latency regresses.",
		Plan7d: []string{
			"Confirm pg_stat_statements is enabled and capturing representative traffic.",
			"Run EXPLAIN (ANALYZE, BUFFERS) for top queries and identify scans/sorts/hot joins.",
			"Implement 1-2 highest-ROI fixes (index or query rewrite) with safe rollout.",
		},
		Plan30d: []string{
			"Add performance regression tests (key endpoints) and track DB p95 + CPU.",
			"Introduce SLO/alerts for slow query spikes and lock contention.",
			"Consider connection pooling tuning to reduce per-query overhead.",
		},
		Questions: []string{
			"Are these queries representative of peak traffic (same workload + time window)?",
			"Any hard constraints on index build time / lock tolerance?",
			"Is read/write split or partitioning on the roadmap?",
		},
	}}, nil
}

// topQueries returns the n rows with the largest total_time_ms. Unparseable values count as zero.
func topQueries(rows []map[string]string, n int) []map[string]string {
	sorted := make([]map[string]string, len(rows))
	copy(sorted, rows)
	total := func(r map[string]string) float64 {
		v, err := rowNumber(r, "total_time_ms")
		if err != nil {
			return 0
		}
		return v
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return total(sorted[i]) > total(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// indexHint suggests an index for well-known query shapes.
func indexHint(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "from users") && strings.Contains(q, "where email"):
		return "CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_users_email ON public.users (email);"
	case strings.Contains(q, "from orders") && strings.Contains(q, "where created_at"):
		return "CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_orders_created_at ON public.orders (created_at DESC);"
	case strings.Contains(q, "from invoices") && strings.Contains(q, "where account_id") && strings.Contains(q, "status"):
		return "CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_invoices_account_status_due ON public.invoices (account_id, status, due_date);"
	case strings.Contains(q, "update sessions") && strings.Contains(q, "where session_token"):
		return "CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_sessions_token ON public.sessions (session_token);"
	}
	return ""
}
