package checks

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	userTablesArtifact = "postgres/pg_stat_user_tables.csv"

	seqScanMinTuples = 100000
	seqScanMinScans  = 5000

	deadTupleRatio = 0.10

	tablesListedInTitle = 3
)

// SeqScansCheck reports large tables that are read mostly through sequential scans.
type SeqScansCheck struct{}

func (c *SeqScansCheck) Name() string { return "postgres.seq_scans" }

func (c *SeqScansCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(userTablesArtifact)
}

func (c *SeqScansCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	rows, ok, err := fx.ReadTabular(userTablesArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var offenders []map[string]string
	for _, r := range rows {
		tuples, err := rowNumber(r, "reltuples")
		if err != nil {
			continue
		}
		scans, err := rowNumber(r, "seq_scan")
		if err != nil {
			continue
		}
		if int64(tuples) >= seqScanMinTuples && int64(scans) >= seqScanMinScans {
			offenders = append(offenders, r)
		}
	}
	if len(offenders) == 0 {
		return nil, nil
	}

	return []findings.Finding{{
		Category: findings.CategoryPerformance,
		Severity: findings.SeverityHigh,
		Title:    fmt.Sprintf("High sequential scan activity on large tables (%s)", qualifiedNames(offenders, tablesListedInTitle)),
		Impact: "Repeated sequential scans on large tables inflate latency and CPU, especially under concurrency. " +
			"This is a common root cause of 'DB is slow' incidents.",
		Confidence: findings.LevelMedium,
		Evidence: []findings.EvidenceRef{
			findings.NewEvidence(evidencePath(userTablesArtifact), "Tables with high reltuples and high seq_scan"),
		},
		FixNow: &findings.RemediationAction{
			Title: "Identify query patterns causing seq_scans and add targeted indexes",
			Commands: []string{
				"# Map top seq_scans to query patterns (pg_stat_statements + logs)",
				"# Run EXPLAIN (ANALYZE, BUFFERS) to confirm scan type and cost",
				"# Add the smallest viable index to support the common filter/order",
				`psql -c "SELECT relname, seq_scan, idx_scan, n_live_tup, n_dead_tup FROM pg_stat_user_tables ORDER BY seq_scan DESC LIMIT 20;"`,
			},
		},
		Effort:      findings.LevelMedium,
		BlastRadius: findings.LevelMedium,
		Plan7d: []string{
			"Map top seq_scanned tables to specific endpoints/jobs.",
			"Implement 1-2 high-ROI fixes (index or query rewrite) and measure p95 before/after.",
			"Ensure stats are current (ANALYZE) for affected tables.",
		},
		Plan30d: []string{
			"Add performance dashboards/alerts (DB CPU, buffer hit rate, slow query spikes).",
			"Review ORM/query patterns (wide SELECT *, missing filters) driving scans.",
			"Consider partitioning for large time-series tables if growth continues.",
		},
		Questions: []string{
			"Are these tables expected to be scan-heavy (analytics), or OLTP hot paths?",
			"Do you have read replicas or a separate analytics store?",
			"Any existing indexes that are unused or misaligned with query patterns?",
		},
	}}, nil
}

// AutovacuumCheck reports tables where dead tuples pile up even though autovacuum runs.
type AutovacuumCheck struct{}

func (c *AutovacuumCheck) Name() string { return "postgres.autovacuum" }

func (c *AutovacuumCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(userTablesArtifact)
}

func (c *AutovacuumCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	rows, ok, err := fx.ReadTabular(userTablesArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var bloated []map[string]string
	for _, r := range rows {
		live, err := rowNumber(r, "n_live_tup")
		if err != nil {
			continue
		}
		dead, err := rowNumber(r, "n_dead_tup")
		if err != nil {
			continue
		}
		liveCount, deadCount := int64(live), int64(dead)
		if liveCount <= 0 {
			continue
		}
		// a recorded autovacuum run means vacuum is active but not keeping up
		ranAutovacuum := strings.TrimSpace(r["last_autovacuum"]) != ""
		if float64(deadCount)/float64(liveCount) >= deadTupleRatio && ranAutovacuum {
			bloated = append(bloated, r)
		}
	}
	if len(bloated) == 0 {
		return nil, nil
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: findings.SeverityMedium,
		Title:    fmt.Sprintf("Autovacuum pressure likely on (%s) with high dead tuple ratios", qualifiedNames(bloated, tablesListedInTitle)),
		Impact: "High dead tuples increase bloat and slow queries (more pages to scan, worse cache locality). " +
			"If vacuum can't keep up, performance degrades and storage costs rise.",
		Confidence: findings.LevelMedium,
		Evidence: []findings.EvidenceRef{
			findings.NewEvidence(evidencePath(userTablesArtifact), "Tables with high n_dead_tup relative to n_live_tup"),
		},
		FixNow: &findings.RemediationAction{
			Title: "Inspect worst tables and tune vacuum/analyze thresholds where needed",
			Commands: []string{
				`psql -c "SELECT relname, n_live_tup, n_dead_tup, last_autovacuum FROM pg_stat_user_tables ORDER BY n_dead_tup DESC LIMIT 20;"`,
				"# Consider per-table tuning on hot churn tables:",
				"# autovacuum_vacuum_scale_factor, autovacuum_vacuum_threshold, # autovacuum_analyze_scale_factor, autovacuum_analyze_threshold",
				"# Also check for long-running transactions preventing cleanup.",
			},
		},
		Effort:      findings.LevelLow,
		BlastRadius: findings.LevelLow,
		Rollback:    "ALTER TABLE ... RESET (autovacuum_vacuum_scale_factor) to return to the global settings.",
		Plan7d: []string{
			"Identify top bloat contributors and confirm vacuum is running as expected.",
			"Adjust autovac settings for the highest-churn tables (sessions/events/orders).",
			"Add alerting for dead tuple ratio and vacuum lag.",
		},
		Plan30d: []string{
			"Schedule periodic bloat checks and reindex strategy where appropriate.",
			"Review retention policies (e.g., session cleanup) to reduce churn.",
			"Add runbooks for vacuum/reindex and long-transaction mitigation.",
		},
		Questions: []string{
			"Any long-running transactions or idle-in-transaction sessions during peaks?",
			"Are you using managed defaults (RDS/Aurora) or custom autovac settings?",
			"Do you have strict maintenance window constraints?",
		},
	}}, nil
}
