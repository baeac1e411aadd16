package runner

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/teardown/internal/checks"
	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

type fakeCheck struct {
	name    string
	applies bool
	out     []findings.Finding
	err     error
	panics  bool
	ran     *bool
}

func (f *fakeCheck) Name() string { return f.name }

func (f *fakeCheck) Applies(fixtures.Source) bool { return f.applies }

func (f *fakeCheck) Run(fixtures.Source) ([]findings.Finding, error) {
	if f.ran != nil {
		*f.ran = true
	}
	if f.panics {
		panic("index out of range")
	}
	return f.out, f.err
}

func finding(title string) findings.Finding {
	return findings.Finding{Category: findings.CategoryPerformance, Severity: findings.SeverityMedium, Title: title}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestRunPreservesCheckOrderAndStampsSource(t *testing.T) {
	r := New([]checks.Check{
		&fakeCheck{name: "b.second", applies: true, out: []findings.Finding{finding("z"), finding("a")}},
		&fakeCheck{name: "a.first", applies: true, out: []findings.Finding{finding("m")}},
	}, nil)

	res := r.Run(t.TempDir())

	require.Len(t, res.Findings, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{res.Findings[0].Title, res.Findings[1].Title, res.Findings[2].Title})
	assert.Equal(t, "b.second", res.Findings[0].Source)
	assert.Equal(t, "a.first", res.Findings[2].Source)
	assert.Equal(t, []CheckOutcome{
		{Name: "b.second", Status: StatusOK, Findings: 2},
		{Name: "a.first", Status: StatusOK, Findings: 1},
	}, res.Checks)
}

func TestRunSkipsChecksThatDoNotApply(t *testing.T) {
	ran := false
	r := New([]checks.Check{&fakeCheck{name: "never", applies: false, ran: &ran}}, nil)

	res := r.Run(t.TempDir())

	assert.False(t, ran)
	assert.Empty(t, res.Findings)
	assert.Equal(t, []CheckOutcome{{Name: "never", Status: StatusSkipped}}, res.Checks)
}

func TestRunConvertsFailuresToFindings(t *testing.T) {
	tests := []struct {
		name        string
		check       *fakeCheck
		wantMessage string
	}{
		{
			name:        "returned error",
			check:       &fakeCheck{name: "broken", applies: true, err: errors.New("bad column")},
			wantMessage: "bad column",
		},
		{
			name:        "panic",
			check:       &fakeCheck{name: "broken", applies: true, panics: true},
			wantMessage: "panic: index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			laterRan := false
			r := New([]checks.Check{
				tt.check,
				&fakeCheck{name: "later", applies: true, out: []findings.Finding{finding("still here")}, ran: &laterRan},
			}, nil)

			res := r.Run(t.TempDir())

			assert.True(t, laterRan)
			require.Len(t, res.Findings, 2)

			f := res.Findings[0]
			assert.Equal(t, findings.CategoryReliability, f.Category)
			assert.Equal(t, findings.SeverityLow, f.Severity)
			assert.Equal(t, findings.LevelLow, f.Confidence)
			assert.Equal(t, findings.LevelLow, f.Effort)
			assert.Equal(t, findings.LevelLow, f.BlastRadius)
			assert.Equal(t, "Check failed: broken", f.Title)
			assert.Equal(t, "A check raised an exception and was skipped: "+tt.wantMessage, f.Impact)
			assert.Empty(t, f.Evidence)
			assert.Nil(t, f.FixNow)
			assert.Equal(t, []string{"Review fixture format and check implementation for robustness."}, f.Plan7d)
			assert.Equal(t, []string{"Add tests/fixtures variants to harden parsers against real-world noise."}, f.Plan30d)
			assert.Equal(t, []string{"Are fixture formats consistent with your target environments?"}, f.Questions)

			assert.Equal(t, StatusFailed, res.Checks[0].Status)
			assert.Equal(t, tt.wantMessage, res.Checks[0].Message)
			assert.Equal(t, "still here", res.Findings[1].Title)
		})
	}
}

func TestRunListsInputs(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"linux/df_h.txt":                "Filesystem\n",
		"postgres/pg_pool_stats.json":   "{}",
		"cost/utilization_summary.json": "{}",
	})

	res := New(nil, nil).Run(root)
	assert.Equal(t, []string{
		"cost/utilization_summary.json",
		"linux/df_h.txt",
		"postgres/pg_pool_stats.json",
	}, res.InputsReviewed)
}

func TestRunMissingRoot(t *testing.T) {
	res := RunAllChecks(filepath.Join(t.TempDir(), "missing"))
	assert.Empty(t, res.Findings)
	assert.Empty(t, res.InputsReviewed)
	assert.NotNil(t, res.InputsReviewed)
	for _, c := range res.Checks {
		assert.Equal(t, StatusSkipped, c.Status, c.Name)
	}
}

func TestRunAllChecksOnSnapshot(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"linux/df_h.txt": "Filesystem Size Used Avail Use% Mounted on\n" +
			"/dev/sda1 50G 20G 30G 40% /\n" +
			"/dev/sdb1 200G 184G 16G 92% /data\n",
		"postgres/pg_pool_stats.json": `{"max_client_conn": `,
	})

	res := RunAllChecks(root)

	require.Len(t, res.Findings, 2)
	assert.Equal(t, "linux.disk", res.Findings[0].Source)
	assert.Equal(t, findings.SeverityHigh, res.Findings[0].Severity)
	assert.Equal(t, 3, res.Findings[0].Evidence[0].Start())
	assert.Equal(t, "Check failed: postgres.pool_saturation", res.Findings[1].Title)
	assert.Len(t, res.Checks, len(checks.Names()))
}

func TestRunWithoutChecksKeepsCollectionsNonNil(t *testing.T) {
	res := New(nil, nil).Run(t.TempDir())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"findings": [], "inputs_reviewed": [], "checks": []}`, string(data))
}

func TestRunReportsReadableInputsNextToUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := writeFiles(t, map[string]string{
		"linux/df_h.txt":   "Filesystem Size Used Avail Use% Mounted on\n",
		"secret/token.txt": "x",
	})
	secret := filepath.Join(root, "secret")
	require.NoError(t, os.Chmod(secret, 0o000))
	t.Cleanup(func() { _ = os.Chmod(secret, 0o755) })

	res := New(nil, nil).Run(root)
	assert.Equal(t, []string{"linux/df_h.txt"}, res.InputsReviewed)
}

func TestRunListsSymlinkedInputs(t *testing.T) {
	outside := writeFiles(t, map[string]string{
		"df_h.txt": "Filesystem Size Used Avail Use% Mounted on\n" +
			"/dev/sdb1 200G 184G 16G 92% /data\n",
	})
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "linux"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(outside, "df_h.txt"), filepath.Join(root, "linux", "df_h.txt")))

	res := New([]checks.Check{&checks.DiskCheck{}}, nil).Run(root)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, []string{"linux/df_h.txt"}, res.InputsReviewed)
}
