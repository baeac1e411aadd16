package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/teardown/internal/findings"
)

func TestProxyTimeoutsCheck(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantFindings int
	}{
		{
			name:         "proxy without read timeout",
			content:      "server {\n  location / {\n    proxy_pass http://api;\n  }\n}\n",
			wantFindings: 1,
		},
		{
			name:         "proxy with read timeout",
			content:      "location / {\n  proxy_pass http://api;\n  proxy_read_timeout 60s;\n}\n",
			wantFindings: 0,
		},
		{
			name:         "static site",
			content:      "server {\n  root /var/www;\n}\n",
			wantFindings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := snapshot(t, map[string]string{"edge/nginx.conf": tt.content})
			out := runCheck(t, &ProxyTimeoutsCheck{}, fx)
			require.Len(t, out, tt.wantFindings)
			if tt.wantFindings == 1 {
				assert.Equal(t, findings.SeverityMedium, out[0].Severity)
				assert.Equal(t, findings.CategoryReliability, out[0].Category)
			}
		})
	}
}

func TestTLSPolicyCheck(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantTitles []string
	}{
		{
			name:       "legacy and no hsts",
			content:    "TLSv1.0: enabled\nTLSv1.1: disabled\nTLSv1.2: enabled\nHSTS: missing\n",
			wantTitles: []string{"Legacy TLS versions appear enabled (TLS 1.0/1.1)", "HSTS is missing"},
		},
		{
			name:       "only tls 1.1",
			content:    "tlsv1.0: disabled\ntlsv1.1: enabled\nhsts: present\n",
			wantTitles: []string{"Legacy TLS versions appear enabled (TLS 1.0/1.1)"},
		},
		{
			name:    "modern",
			content: "TLSv1.2: enabled\nTLSv1.3: enabled\nHSTS: present\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := snapshot(t, map[string]string{"edge/tls_scan.txt": tt.content})
			out := runCheck(t, &TLSPolicyCheck{}, fx)

			var titles []string
			for _, f := range out {
				titles = append(titles, f.Title)
				assert.Equal(t, findings.CategorySecurity, f.Category)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

const ec2Volumes = `{
  "Volumes": [
    {"VolumeId": "vol-0aaa", "VolumeType": "gp2", "Size": 100, "State": "in-use",
     "Attachments": [{"InstanceId": "i-1", "State": "attached", "VolumeId": "vol-0aaa"}]},
    {"VolumeId": "vol-0bbb", "VolumeType": "gp3", "Size": 500, "State": "available", "Attachments": []},
    {"VolumeId": "vol-0ccc", "VolumeType": "gp3", "Size": 20, "State": "in-use",
     "Attachments": [{"InstanceId": "i-2", "State": "attached", "VolumeId": "vol-0ccc"}]}
  ]
}`

func TestCostSignalsCheck(t *testing.T) {
	fx := snapshot(t, map[string]string{
		"cost/utilization_summary.json": `{"instance_id": "i-0abc", "instance_type": "m5.2xlarge", "cpu_p95_percent": 12, "memory_p95_percent": 31.5, "period_days": 30}`,
		"cost/ebs_volumes.csv":          "volume_id,type,size_gb\nvol-1,gp2,100\nvol-2,GP2 ,50\nvol-3,gp3,20\n",
		"cost/ec2_volumes.json":         ec2Volumes,
	})

	out := runCheck(t, &CostSignalsCheck{}, fx)
	require.Len(t, out, 3)

	byTitle := map[string]findings.Finding{}
	for _, f := range out {
		assert.Equal(t, findings.CategoryCost, f.Category)
		byTitle[f.Title] = f
	}

	util, ok := byTitle["Possible overprovisioning signal: m5.2xlarge at low p95 utilization"]
	require.True(t, ok)
	assert.Equal(t, findings.SeverityMedium, util.Severity)
	assert.Equal(t, findings.LevelLow, util.Confidence)
	assert.Equal(t, "instance=i-0abc, cpu_p95=12.0%, mem_p95=31.5% over 30 days", util.Evidence[0].Note)

	gp2, ok := byTitle["EBS gp2 volumes detected; consider gp3 for cost/performance control"]
	require.True(t, ok)
	assert.Equal(t, findings.SeverityLow, gp2.Severity)
	require.Len(t, gp2.Evidence, 2)
	assert.Equal(t, "gp2 volumes: vol-1, vol-2", gp2.Evidence[0].Note)
	assert.Equal(t, "gp2 volumes: vol-0aaa", gp2.Evidence[1].Note)

	unattached, ok := byTitle["Unattached EBS volumes are still billed"]
	require.True(t, ok)
	assert.Equal(t, "available volumes: vol-0bbb (500 GiB)", unattached.Evidence[0].Note)
}

func TestCostSignalsCheckBusyInstance(t *testing.T) {
	fx := snapshot(t, map[string]string{
		"cost/utilization_summary.json": `{"instance_type": "m5.large", "cpu_p95_percent": 65, "memory_p95_percent": 20}`,
	})
	assert.Empty(t, runCheck(t, &CostSignalsCheck{}, fx))
}

func TestCostSignalsCheckMissingIdentifiers(t *testing.T) {
	fx := snapshot(t, map[string]string{
		"cost/utilization_summary.json": `{"cpu_p95_percent": 5, "memory_p95_percent": 10}`,
	})
	out := runCheck(t, &CostSignalsCheck{}, fx)
	require.Len(t, out, 1)
	assert.Equal(t, "Possible overprovisioning signal: unknown at low p95 utilization", out[0].Title)
	assert.Equal(t, "instance=unknown, cpu_p95=5.0%, mem_p95=10.0% over unknown days", out[0].Evidence[0].Note)
}
