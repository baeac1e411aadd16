package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// SnapshotMetadata describes where a snapshot bundle came from when it is versioned in git.
type SnapshotMetadata struct {
	BranchName *string
	CommitHash *string
	Subfolder  string
	RepoRoot   string
}

// CollectSnapshotMetadata reads branch and commit of the git work tree containing root.
// It returns ErrNotRepository when root is not versioned.
func CollectSnapshotMetadata(root string) (*SnapshotMetadata, error) {
	if root == "" {
		return nil, fmt.Errorf("snapshot folder is not set")
	}

	if absRoot, err := filepath.Abs(root); err == nil {
		root = absRoot
	}

	md := &SnapshotMetadata{
		RepoRoot: filepath.Clean(root),
	}

	repoRoot, err := findGitRepositoryPath(root)
	if err != nil {
		return md, err
	}
	md.RepoRoot = filepath.Clean(repoRoot)

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(repoRoot, root); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	head, err := repo.Head()
	if err != nil {
		return md, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		branchName := head.Name().Short()
		md.BranchName = &branchName
	}
	hash := head.Hash().String()
	md.CommitHash = &hash

	return md, nil
}

// Revision renders the metadata as "branch@shorthash", or just the short hash on a detached HEAD.
// Subfolders are appended after a colon.
func (m *SnapshotMetadata) Revision() string {
	if m == nil || m.CommitHash == nil {
		return ""
	}
	rev := shortHash(*m.CommitHash)
	if m.BranchName != nil {
		rev = *m.BranchName + "@" + rev
	}
	if m.Subfolder != "" {
		rev += ":" + m.Subfolder
	}
	return rev
}
