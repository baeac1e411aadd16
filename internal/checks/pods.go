package checks

import (
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/internal/fixtures"
)

const (
	podsArtifact        = "kubernetes/pods.json"
	podRestartWarnCount = 5
	podRestartHighCount = 10
	podsListedInTitle   = 3
)

// crashReasons are waiting reasons that mean the container is not coming up on its own.
var crashReasons = sets.New[string]("CrashLoopBackOff", "CreateContainerConfigError", "ImagePullBackOff", "ErrImagePull")

// PodRestartsCheck reads `kubectl get pods -o json` output and reports containers that keep restarting.
type PodRestartsCheck struct{}

type unhealthyContainer struct {
	pod       string
	container string
	restarts  int32
	reason    string
}

func (u unhealthyContainer) note() string {
	note := fmt.Sprintf("%s container=%s restarts=%d", u.pod, u.container, u.restarts)
	if u.reason != "" {
		note += " reason=" + u.reason
	}
	return note
}

func (c *PodRestartsCheck) Name() string { return "kubernetes.pod_restarts" }

func (c *PodRestartsCheck) Applies(fx fixtures.Source) bool {
	return fx.Exists(podsArtifact)
}

func (c *PodRestartsCheck) Run(fx fixtures.Source) ([]findings.Finding, error) {
	var pods corev1.PodList
	ok, err := fx.DecodeJSON(podsArtifact, &pods)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var (
		bad      []unhealthyContainer
		crashing bool
		maxCount int32
	)
	for _, pod := range pods.Items {
		name := pod.Name
		if pod.Namespace != "" {
			name = pod.Namespace + "/" + pod.Name
		}
		statuses := append(append([]corev1.ContainerStatus{}, pod.Status.InitContainerStatuses...), pod.Status.ContainerStatuses...)
		for _, cs := range statuses {
			reason := ""
			if cs.State.Waiting != nil && crashReasons.Has(cs.State.Waiting.Reason) {
				reason = cs.State.Waiting.Reason
			}
			if reason == "" && cs.RestartCount < podRestartWarnCount {
				continue
			}
			if reason != "" {
				crashing = true
			}
			if cs.RestartCount > maxCount {
				maxCount = cs.RestartCount
			}
			bad = append(bad, unhealthyContainer{pod: name, container: cs.Name, restarts: cs.RestartCount, reason: reason})
		}
	}
	if len(bad) == 0 {
		return nil, nil
	}

	sort.SliceStable(bad, func(i, j int) bool {
		return bad[i].restarts > bad[j].restarts
	})

	severity := findings.SeverityMedium
	if crashing || maxCount >= podRestartHighCount {
		severity = findings.SeverityHigh
	}

	seen := sets.New[string]()
	var names []string
	var evidence []findings.EvidenceRef
	for _, u := range bad {
		evidence = append(evidence, findings.NewEvidence(evidencePath(podsArtifact), u.note()))
		if !seen.Has(u.pod) && len(names) < podsListedInTitle {
			names = append(names, u.pod)
		}
		seen.Insert(u.pod)
	}

	return []findings.Finding{{
		Category: findings.CategoryReliability,
		Severity: severity,
		Title:    fmt.Sprintf("Pods are restart-looping (%s)", strings.Join(names, ", ")),
		Impact: "Containers that keep restarting drop in-flight requests and shrink effective capacity. " +
			"They usually point at a failing dependency, a bad config or secret, or memory limits that are too tight.",
		Confidence: findings.LevelHigh,
		Evidence:   evidence,
		FixNow: &findings.RemediationAction{
			Title: "Read the previous container logs and last termination state before changing anything",
			Commands: []string{
				"kubectl get pods -A --sort-by='.status.containerStatuses[0].restartCount' | tail -20",
				"kubectl describe pod <pod> -n <namespace> | sed -n '/Last State/,/Ready/p'",
				"kubectl logs <pod> -n <namespace> --previous --tail=200",
			},
		},
		Effort:        findings.LevelMedium,
		BlastRadius:   findings.LevelLow,
		SuccessMetric: "Restart counts stay flat for 24 hours after the fix.",
		Plan7d: []string{
			"Classify each restart cause (OOMKilled, failing probe, dependency error, bad config).",
			"Fix the top cause and tune liveness/readiness probes so slow starts are not killed.",
			"Alert on restart rate per workload, not per pod.",
		},
		Plan30d: []string{
			"Set requests/limits from observed usage and review them each quarter.",
			"Add startup probes and dependency backoff to workloads that talk to the database.",
			"Track restart counts on the deploy dashboard to catch regressions early.",
		},
		Questions: []string{
			"Did restarts start with a specific deploy or config change?",
			"Are any of these workloads OOMKilled rather than crashing?",
			"Which of these pods serve user traffic directly?",
		},
	}}, nil
}
