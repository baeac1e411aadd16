package checks

import (
	"fmt"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	poolArtifact = "postgres/pg_pool_stats.json"

	poolSaturatedUsage  = 0.90
	poolSaturatedWaitMs = 150
	poolHighWaiting     = 100
	poolHighWaitMs      = 200
)

// PoolSaturationCheck reads connection pooler stats and reports a saturated pool.
type PoolSaturationCheck struct{}

func (c *PoolSaturationCheck) Name() string { return "postgres.pool_saturation" }

func (c *PoolSaturationCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(poolArtifact)
}

func (c *PoolSaturationCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	stats, ok, err := fx.ReadJSON(poolArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var values [4]float64
	for i, key := range []string{"max_client_conn", "current_clients", "current_waiting", "avg_wait_ms"} {
		v, err := jsonNumber(stats, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", poolArtifact, err)
		}
		values[i] = v
	}
	maxClients, current, waiting := int64(values[0]), int64(values[1]), int64(values[2])
	avgWait := values[3]

	if maxClients <= 0 {
		return nil, nil
	}

	usage := float64(current) / float64(maxClients)
	if usage < poolSaturatedUsage && waiting <= 0 && avgWait < poolSaturatedWaitMs {
		return nil, nil
	}

	severity := findings.SeverityMedium
	if waiting >= poolHighWaiting || avgWait >= poolHighWaitMs {
		severity = findings.SeverityHigh
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: severity,
		Title:    "Connection pool appears saturated (high client usage / waiting queue)",
		Impact: "When the pool saturates, requests queue and tail latency spikes. This often presents as " +
			"timeouts and cascading retries, which further increases load.",
		Confidence: findings.LevelMedium,
		Evidence: []findings.EvidenceRef{
			findings.NewEvidence(
				evidencePath(poolArtifact),
				fmt.Sprintf("clients=%d/%d, waiting=%d, avg_wait_ms=%s", current, maxClients, waiting, formatFloat(avgWait)),
			),
		},
		FixNow: &findings.RemediationAction{
			Title: "Reduce pool pressure and protect the DB from connection storms",
			Commands: []string{
				"# Align app pool sizes to DB capacity and reduce per-instance pools if needed.",
				"# Consider transaction pooling for short-lived queries (if compatible).",
				`psql -c "SHOW max_connections;"`,
				`psql -c "SELECT state, count(*) FROM pg_stat_activity GROUP BY state;"`,
			},
		},
		Effort:        findings.LevelMedium,
		BlastRadius:   findings.LevelHigh,
		SuccessMetric: "Pool wait time stays under 50 ms and the waiting queue stays empty at peak.",
		Plan7d: []string{
			"Inventory all services connecting to Postgres and their pool sizes.",
			"Set sane timeouts/backoff to prevent retry storms when DB is slow.",
			"Correlate pool wait spikes with deploy windows, traffic, and slow queries.",
		},
		Plan30d: []string{
			"Introduce admission control (rate limiting/load shedding) for hot endpoints.",
			"Reduce transaction time via query/index fixes so connections return faster.",
			"Automate capacity planning based on concurrency and transaction duration.",
		},
		Questions: []string{
			"How many app instances connect to the pooler at peak?",
			"Are there deploy events that align with wait spikes (connection churn)?",
			"Are long-running queries holding connections open?",
		},
	}}, nil
}
