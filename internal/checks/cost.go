package checks

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	utilizationArtifact = "cost/utilization_summary.json"
	ebsVolumesArtifact  = "cost/ebs_volumes.csv"
	ec2VolumesArtifact  = "cost/ec2_volumes.json"

	idleCPUPercent    = 20
	idleMemoryPercent = 40
)

// CostSignalsCheck looks for directional savings: idle instances, gp2 volumes and unattached volumes.
type CostSignalsCheck struct{}

func (c *CostSignalsCheck) Name() string { return "cost.signals" }

func (c *CostSignalsCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(utilizationArtifact) || fx.Exists(ebsVolumesArtifact) || fx.Exists(ec2VolumesArtifact)
}

func (c *CostSignalsCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	var out []findings.Finding

	overprovisioned, err := c.utilization(fx)
	if err != nil {
		return nil, err
	}
	if overprovisioned != nil {
		out = append(out, *overprovisioned)
	}

	var gp2Evidence []findings.EvidenceRef

	rows, ok, err := fx.ReadTabular(ebsVolumesArtifact)
	if err != nil {
		return nil, err
	}
	if ok {
		var ids []string
		for _, v := range rows {
			if strings.ToLower(strings.TrimSpace(v["type"])) == ec2.VolumeTypeGp2 {
				id := v["volume_id"]
				if id == "" {
					id = "?"
				}
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			gp2Evidence = append(gp2Evidence, findings.NewEvidence(
				evidencePath(ebsVolumesArtifact), "gp2 volumes: "+strings.Join(ids, ", ")))
		}
	}

	var inventory ec2.DescribeVolumesOutput
	ok, err = fx.DecodeJSON(ec2VolumesArtifact, &inventory)
	if err != nil {
		return nil, err
	}
	if ok {
		var gp2IDs, detached []string
		for _, v := range inventory.Volumes {
			if v == nil {
				continue
			}
			id := aws.StringValue(v.VolumeId)
			if aws.StringValue(v.VolumeType) == ec2.VolumeTypeGp2 {
				gp2IDs = append(gp2IDs, id)
			}
			if aws.StringValue(v.State) == ec2.VolumeStateAvailable && len(v.Attachments) == 0 {
				detached = append(detached, fmt.Sprintf("%s (%d GiB)", id, aws.Int64Value(v.Size)))
			}
		}
		if len(gp2IDs) > 0 {
			gp2Evidence = append(gp2Evidence, findings.NewEvidence(
				evidencePath(ec2VolumesArtifact), "gp2 volumes: "+strings.Join(gp2IDs, ", ")))
		}
		if len(detached) > 0 {
			out = append(out, unattachedVolumesFinding(detached))
		}
	}

	if len(gp2Evidence) > 0 {
		out = append(out, gp2Finding(gp2Evidence))
	}
	return out, nil
}

func (c *CostSignalsCheck) utilization(fx fixtures.Source) (*findings.Finding, error) {
	util, ok, err := fx.ReadJSON(utilizationArtifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	cpu, err := jsonNumber(util, "cpu_p95_percent")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", utilizationArtifact, err)
	}
	mem, err := jsonNumber(util, "memory_p95_percent")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", utilizationArtifact, err)
	}
	if cpu >= idleCPUPercent || mem >= idleMemoryPercent {
		return nil, nil
	}

	instanceType := jsonString(util, "instance_type", "unknown")
	note := fmt.Sprintf("instance=%s, cpu_p95=%s%%, mem_p95=%s%% over %s days",
		jsonString(util, "instance_id", "unknown"), formatFloat(cpu), formatFloat(mem), jsonString(util, "period_days", "unknown"))

	return &findings.Finding{
		Category: findings.CategoryCost,
		Severity: findings.SeverityMedium,
		Title:    fmt.Sprintf("Possible overprovisioning signal: %s at low p95 utilization", instanceType),
		Impact: "If sustained utilization is low, you may be paying for capacity you don’t need. " +
			"Rightsizing can reduce spend without reducing reliability (when validated carefully).",
		Confidence: findings.LevelLow,
		Evidence:   []findings.EvidenceRef{findings.NewEvidence(evidencePath(utilizationArtifact), note)},
		FixNow: &findings.RemediationAction{
			Title: "Create a rightsizing candidate and validate against peak/burst patterns",
			Commands: []string{
				"# Validate with a larger window and include disk + network + burst behavior",
				"# If safe, test downsize one step in a canary environment first",
				"aws cloudwatch get-metric-statistics ...  # (example: CPUUtilization p95/p99)",
			},
		},
		Effort:         findings.LevelMedium,
		BlastRadius:    findings.LevelMedium,
		ValidateSafely: "Downsize one canary instance first and watch p95 latency for a full business cycle.",
		Rollback:       "Change the instance type back; keep the previous launch template version.",
		Plan7d: []string{
			"Pull 30–90d utilization including peak events and deploy windows.",
			"Identify a safe canary target for downsize and test rollback.",
			"Estimate savings and risk; execute one change with monitoring.",
		},
		Plan30d: []string{
			"Adopt scheduled scaling or autoscaling where appropriate.",
			"Track unit cost per request/job and alert on regressions.",
			"Automate monthly cost posture checks and recommendations.",
		},
		Questions: []string{
			"Are there known weekly/monthly peaks not represented in this sample?",
			"Any CPU credit/burstable instances involved?",
			"What is your rollback plan if latency increases after downsize?",
		},
	}, nil
}

func gp2Finding(evidence []findings.EvidenceRef) findings.Finding {
	return findings.Finding{
		Category: findings.CategoryCost,
		Severity: findings.SeverityLow,
		Title:    "EBS gp2 volumes detected; consider gp3 for cost/performance control",
		Impact: "gp3 often provides better baseline performance and more predictable tuning. " +
			"Switching from gp2 to gp3 can reduce cost and decouple size from performance.",
		Confidence: findings.LevelMedium,
		Evidence:   evidence,
		FixNow: &findings.RemediationAction{
			Title: "Evaluate gp3 migration plan (low-risk, validate per workload)",
			Commands: []string{
				"# In AWS: modify volume type to gp3 and set IOPS/throughput as needed",
				"# Validate latency/IOPS requirements before and after",
				"aws ec2 modify-volume --volume-id <vol-id> --volume-type gp3 --iops 3000 --throughput 125",
			},
		},
		Effort:      findings.LevelLow,
		BlastRadius: findings.LevelLow,
		Plan7d: []string{
			"Inventory gp2 volumes and identify those safe to migrate first.",
			"Migrate a non-critical volume and confirm workload metrics.",
			"Roll out remaining migrations with a change window + monitoring.",
		},
		Plan30d: []string{
			"Standardize volume types/policies in IaC (default to gp3).",
			"Add cost posture checks for storage, snapshots, and idle resources.",
		},
		Questions: []string{
			"Are there workloads with unusually high IOPS/throughput requirements?",
			"Do you have maintenance windows for volume modifications?",
		},
	}
}

func unattachedVolumesFinding(volumes []string) findings.Finding {
	return findings.Finding{
		Category: findings.CategoryCost,
		Severity: findings.SeverityLow,
		Title:    "Unattached EBS volumes are still billed",
		Impact: "Volumes in the available state are not attached to any instance but are charged for their full size. " +
			"They are usually leftovers from terminated instances or old migrations.",
		Confidence: findings.LevelHigh,
		Evidence: []findings.EvidenceRef{
			findings.NewEvidence(evidencePath(ec2VolumesArtifact), "available volumes: "+strings.Join(volumes, ", ")),
		},
		FixNow: &findings.RemediationAction{
			Title: "Snapshot and delete volumes nobody claims",
			Commands: []string{
				"aws ec2 describe-volumes --filters Name=status,Values=available --query 'Volumes[].[VolumeId,Size,CreateTime]'",
				"aws ec2 create-snapshot --volume-id <vol-id> --description 'pre-delete backup'",
				"aws ec2 delete-volume --volume-id <vol-id>",
			},
		},
		Effort:         findings.LevelLow,
		BlastRadius:    findings.LevelLow,
		ValidateSafely: "Check tags and CloudTrail for the last attach event before deleting.",
		Rollback:       "Restore the volume from the snapshot taken before deletion.",
		Plan7d: []string{
			"Confirm ownership of each unattached volume with the owning team.",
			"Snapshot and delete the confirmed leftovers.",
		},
		Plan30d: []string{
			"Set DeleteOnTermination for data volumes that do not need to outlive instances.",
			"Add a scheduled report of unattached volumes and old snapshots.",
		},
		Questions: []string{
			"Are any of these volumes kept on purpose for recovery or audits?",
		},
	}
}
