package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

const shortHashLength = 7

// findGitRepositoryPath walks up from folder until it finds a git repository root.
func findGitRepositoryPath(folder string) (string, error) {
	if folder == "" {
		return "", fmt.Errorf("snapshot folder is not set")
	}

	for {
		if _, err := git.PlainOpen(folder); err == nil {
			return folder, nil
		}

		parent := filepath.Dir(folder)
		if parent == folder {
			break
		}
		folder = parent
	}

	return "", ErrNotRepository
}

func shortHash(hash string) string {
	if len(hash) > shortHashLength {
		return hash[:shortHashLength]
	}
	return hash
}
