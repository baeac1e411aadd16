// Package ci discovers the CI provider a run executes in and the commit it was triggered for.
package ci

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CIKind represents the type of CI.
type CIKind int

const (
	// CIUnknown indicates the CI provider could not be identified.
	CIUnknown CIKind = iota
	// CIGitHub identifies GitHub CI environments.
	CIGitHub
	// CIGitLab identifies GitLab CI environments.
	CIGitLab
	// CIBitbucket identifies Bitbucket CI environments.
	CIBitbucket
)

const shortHashLength = 7

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// CIEnvironment captures the provenance a CI job exposes through its environment.
type CIEnvironment struct {
	Kind               CIKind
	CI                 bool
	CommitHash         string
	ReferenceName      string // short ref or branch name
	RepositoryFullName string
}

// String returns the human-readable string representation of a CIKind.
func (c CIKind) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	case CIBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

func detectCIKindWithLookup(lookup LookupFunc) CIKind {
	if lookup == nil {
		lookup = os.Getenv
	}

	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "" {
		return CIGitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return CIGitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return CIBitbucket
	}

	return CIUnknown
}

// Detect reads the CI environment of the current process.
// ok is false outside a recognised CI provider.
func Detect() (env CIEnvironment, ok bool) {
	return detectWithLookup(os.Getenv)
}

func detectWithLookup(lookup LookupFunc) (CIEnvironment, bool) {
	kind := detectCIKindWithLookup(lookup)
	env, err := getCIDefaultEnvVars(kind, lookup)
	if err != nil {
		return CIEnvironment{}, false
	}
	return env, true
}

func getCIDefaultEnvVars(kind CIKind, lookup LookupFunc) (CIEnvironment, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	ci, _ := strconv.ParseBool(lookup("CI"))
	env := CIEnvironment{Kind: kind, CI: ci}

	switch kind {
	case CIGitHub:
		// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
		env.CommitHash = lookup("GITHUB_SHA")
		env.ReferenceName = lookup("GITHUB_REF_NAME")
		env.RepositoryFullName = lookup("GITHUB_REPOSITORY")
	case CIGitLab:
		// See https://docs.gitlab.com/ci/variables/predefined_variables/.
		env.CommitHash = lookup("CI_COMMIT_SHA")
		env.ReferenceName = firstNonEmpty(lookup("CI_COMMIT_TAG"), lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"), lookup("CI_COMMIT_REF_NAME"))
		env.RepositoryFullName = lookup("CI_PROJECT_PATH")
	case CIBitbucket:
		// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
		env.CommitHash = lookup("BITBUCKET_COMMIT")
		env.ReferenceName = firstNonEmpty(lookup("BITBUCKET_TAG"), lookup("BITBUCKET_BRANCH"))
		env.RepositoryFullName = lookup("BITBUCKET_REPO_FULL_NAME")
	default:
		return CIEnvironment{}, fmt.Errorf("unsupported ci kind: %s", kind)
	}
	return env, nil
}

// Revision renders the job's commit as "ref@shorthash", or "" when no commit is known.
func (e CIEnvironment) Revision() string {
	if e.CommitHash == "" {
		return ""
	}
	hash := e.CommitHash
	if len(hash) > shortHashLength {
		hash = hash[:shortHashLength]
	}
	if e.ReferenceName == "" {
		return hash
	}
	return e.ReferenceName + "@" + hash
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
